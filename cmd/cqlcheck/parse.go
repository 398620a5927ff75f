package main

import (
	"crypto/tls"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
)

const masked = "********"

// descriptorView is the printable form of a descriptor. Secrets are masked.
type descriptorView struct {
	Hosts                    []string          `yaml:"hosts"`
	Keyspace                 string            `yaml:"keyspace,omitempty"`
	User                     string            `yaml:"user,omitempty"`
	Password                 string            `yaml:"password,omitempty"`
	Consistency              string            `yaml:"consistency"`
	TLS                      *tlsView          `yaml:"tls,omitempty"`
	ConnectTimeout           string            `yaml:"connect_timeout,omitempty"`
	Timeout                  string            `yaml:"timeout,omitempty"`
	ProtoVersion             int               `yaml:"proto_version,omitempty"`
	LocalDC                  string            `yaml:"local_dc,omitempty"`
	DisableInitialHostLookup bool              `yaml:"disable_initial_host_lookup,omitempty"`
	ReturnNullStrings        bool              `yaml:"return_null_strings,omitempty"`
	Ignored                  map[string]string `yaml:"ignored,omitempty"`
}

type tlsView struct {
	TrustStore              string   `yaml:"trust_store,omitempty"`
	TrustStorePassword      string   `yaml:"trust_store_password,omitempty"`
	KeyStore                string   `yaml:"key_store,omitempty"`
	KeyStorePassword        string   `yaml:"key_store_password,omitempty"`
	KeyAlias                string   `yaml:"key_alias,omitempty"`
	CipherSuites            []string `yaml:"cipher_suites,omitempty"`
	MinVersion              string   `yaml:"min_version,omitempty"`
	VerifyServerCertificate bool     `yaml:"verify_server_certificate"`
}

func newDescriptorView(d *dsn.Descriptor) descriptorView {
	v := descriptorView{
		Hosts:                    d.HostStrings(),
		Keyspace:                 d.Keyspace.Quoted(),
		Consistency:              d.Consistency.String(),
		ConnectTimeout:           durationText(d.ConnectTimeout),
		Timeout:                  durationText(d.Timeout),
		ProtoVersion:             d.ProtoVersion,
		LocalDC:                  d.LocalDC,
		DisableInitialHostLookup: d.DisableInitialHostLookup,
		ReturnNullStrings:        d.ReturnNullStrings,
		Ignored:                  d.Extra,
	}
	if d.Credentials != nil {
		v.User = d.Credentials.Username
		v.Password = secret(d.Credentials.Password)
	}
	if t := d.TLS; t != nil {
		v.TLS = &tlsView{
			TrustStore:              t.TrustStore,
			TrustStorePassword:      secret(t.TrustStorePassword),
			KeyStore:                t.KeyStore,
			KeyStorePassword:        secret(t.KeyStorePassword),
			KeyAlias:                t.KeyAlias,
			VerifyServerCertificate: t.VerifyServerCertificate,
		}
		for _, id := range t.CipherSuites {
			v.TLS.CipherSuites = append(v.TLS.CipherSuites, tls.CipherSuiteName(id))
		}
		if t.MinVersion != 0 {
			v.TLS.MinVersion = tls.VersionName(t.MinVersion)
		}
	}

	return v
}

func secret(s string) string {
	if s == "" {
		return ""
	}

	return masked
}

func durationText(d time.Duration) string {
	if d == 0 {
		return ""
	}

	return d.String()
}

func newParseCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <uri>",
		Short: "Parse a connection string and print the resolved settings",
		Long: `Parse a connection string with the option and environment layers applied
and print the resolved settings as YAML. Passwords are masked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := rootOpts.optionMap()
			if err != nil {
				return err
			}

			d, err := dsn.Parse(args[0], options, dsn.WithEnv(rootOpts.env()))
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(newDescriptorView(d)); err != nil {
				return err
			}

			return enc.Close()
		},
	}
}
