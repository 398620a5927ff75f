package dsn

import (
	"crypto/tls"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Recognized option keys. Keys are matched case-insensitively.
const (
	keyUser                     = "user"
	keyPassword                 = "password"
	keyConsistency              = "consistency"
	keySSL                      = "ssl"
	keyVerifyServerCertificate  = "verifyservercertificate"
	keyTrustStore               = "truststore"
	keyTrustStorePassword       = "truststorepassword"
	keyKeyStore                 = "keystore"
	keyKeyStorePassword         = "keystorepassword"
	keyKeyAlias                 = "keyalias"
	keyCipherSuites             = "ciphersuites"
	keyTLSMinVersion            = "tlsminversion"
	keyConnectTimeout           = "connecttimeout"
	keyTimeout                  = "timeout"
	keyProtoVersion             = "protoversion"
	keyLocalDC                  = "localdc"
	keyDisableInitialHostLookup = "disableinitialhostlookup"
	keyReturnNullStrings        = "returnnullstrings"
)

var aliases = map[string]string{
	"username":         keyUser,
	"consistencylevel": keyConsistency,
	"enablessl":        keySSL,
	"sslenabled":       keySSL,
	"hostverification": keyVerifyServerCertificate,
	"protocol":         keyTLSMinVersion,

	"cassandra.jdbc.return.null.strings.from.intro.query": keyReturnNullStrings,
}

// settings is the typed form of every recognized key. The desc tag is
// reported by Options.
type settings struct {
	User                     string            `mapstructure:"user" desc:"Username for password authentication"`
	Password                 string            `mapstructure:"password" desc:"Password for password authentication"`
	Consistency              types.Consistency `mapstructure:"consistency" desc:"Default consistency level of statements"`
	SSL                      bool              `mapstructure:"ssl" desc:"Use TLS for every connection"`
	VerifyServerCertificate  bool              `mapstructure:"verifyservercertificate" desc:"Verify the server certificate chain and host name"`
	TrustStore               string            `mapstructure:"truststore" desc:"PKCS#12 or PEM file with trusted CA certificates"`
	TrustStorePassword       string            `mapstructure:"truststorepassword" desc:"Password of the trust store"`
	KeyStore                 string            `mapstructure:"keystore" desc:"PKCS#12 or PEM file with the client certificate and key"`
	KeyStorePassword         string            `mapstructure:"keystorepassword" desc:"Password of the key store"`
	KeyAlias                 string            `mapstructure:"keyalias" desc:"Friendly name of the client key in the key store"`
	CipherSuites             []string          `mapstructure:"ciphersuites" desc:"Comma-separated IANA cipher suite names"`
	TLSMinVersion            string            `mapstructure:"tlsminversion" desc:"Minimum TLS version, e.g. 1.2"`
	ConnectTimeout           time.Duration     `mapstructure:"connecttimeout" desc:"Dial timeout, a Go duration or milliseconds"`
	Timeout                  time.Duration     `mapstructure:"timeout" desc:"Request timeout, a Go duration or milliseconds"`
	ProtoVersion             int               `mapstructure:"protoversion" desc:"Native protocol version 1 to 5, 0 to negotiate"`
	LocalDC                  string            `mapstructure:"localdc" desc:"Preferred datacenter for DC-aware routing"`
	DisableInitialHostLookup bool              `mapstructure:"disableinitialhostlookup" desc:"Use only the listed contact points"`
	ReturnNullStrings        bool              `mapstructure:"returnnullstrings" desc:"Introspection returns NULL instead of empty strings"`
}

// recognized lists the mapstructure keys of settings.
var recognized = func() map[string]bool {
	m := make(map[string]bool)
	t := reflect.TypeFor[settings]()
	for i := range t.NumField() {
		m[t.Field(i).Tag.Get("mapstructure")] = true
	}

	return m
}()

var secretKeys = map[string]bool{
	keyPassword:           true,
	keyTrustStorePassword: true,
	keyKeyStorePassword:   true,
}

func defaultSettings() settings {
	return settings{
		Consistency:             types.DefaultConsistency,
		VerifyServerCertificate: true,
	}
}

// canonicalKey lowercases key and resolves aliases.
func canonicalKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	if canonical, ok := aliases[key]; ok {
		return canonical
	}

	return key
}

// decodeSettings decodes each recognized key separately so a failure can be
// attributed to the key that caused it.
func decodeSettings(values map[string]string) (settings, error) {
	s := defaultSettings()
	for key, value := range values {
		if !recognized[key] {
			continue
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				consistencyHook,
				durationHook,
				mapstructure.StringToSliceHookFunc(","),
			),
			WeaklyTypedInput: true,
			Result:           &s,
		})
		if err != nil {
			return s, err
		}
		if err := decoder.Decode(map[string]any{key: strings.TrimSpace(value)}); err != nil {
			return s, optionError(key, value, unwrapDecodeError(err))
		}
	}

	if s.ConnectTimeout < 0 {
		return s, optionError(keyConnectTimeout, s.ConnectTimeout.String(), errors.New("must not be negative"))
	}
	if s.Timeout < 0 {
		return s, optionError(keyTimeout, s.Timeout.String(), errors.New("must not be negative"))
	}
	if s.ProtoVersion < 0 || s.ProtoVersion > 5 {
		return s, optionError(keyProtoVersion, strconv.Itoa(s.ProtoVersion), errors.New("supported versions are 1 to 5, or 0 to negotiate"))
	}

	return s, nil
}

func optionError(key, value string, cause error) error {
	if secretKeys[key] {
		value = ""
	}

	return &types.OptionError{Key: key, Value: value, Cause: cause}
}

// unwrapDecodeError strips mapstructure's aggregate wrapper.
func unwrapDecodeError(err error) error {
	var msErr *mapstructure.Error
	if errors.As(err, &msErr) && len(msErr.WrappedErrors()) == 1 {
		return msErr.WrappedErrors()[0]
	}

	return err
}

func consistencyHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeFor[types.Consistency]() || from.Kind() != reflect.String {
		return data, nil
	}

	name, _ := data.(string)
	c, ok := types.ParseConsistency(name)
	if !ok {
		return nil, fmt.Errorf("unknown consistency level %q", name)
	}

	return c, nil
}

// durationHook accepts Go duration strings and bare integers as milliseconds.
func durationHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeFor[time.Duration]() || from.Kind() != reflect.String {
		return data, nil
	}

	s, _ := data.(string)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q", s)
	}

	return d, nil
}

// cipherSuiteIDs resolves IANA cipher suite names, including the ones Go
// marks insecure, since deployments pin suites explicitly.
func cipherSuiteIDs(names []string) ([]uint16, error) {
	known := make(map[string]uint16)
	for _, cs := range tls.CipherSuites() {
		known[cs.Name] = cs.ID
	}
	for _, cs := range tls.InsecureCipherSuites() {
		known[cs.Name] = cs.ID
	}

	ids := make([]uint16, 0, len(names))
	for _, name := range names {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		id, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown cipher suite %q", name)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

var tlsVersions = map[string]uint16{
	"1.0": tls.VersionTLS10,
	"1.1": tls.VersionTLS11,
	"1.2": tls.VersionTLS12,
	"1.3": tls.VersionTLS13,
}

// tlsVersion accepts "1.2", "TLSv1.2", "TLS1.2" and "TLS 1.2".
func tlsVersion(name string) (uint16, error) {
	if name == "" {
		return 0, nil
	}

	v := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	v = strings.TrimPrefix(v, "tls")
	v = strings.TrimPrefix(v, "v")
	if id, ok := tlsVersions[v]; ok {
		return id, nil
	}

	return 0, fmt.Errorf("unknown TLS version %q", name)
}
