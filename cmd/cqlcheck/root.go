package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	cassandra "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/contrib/logging/gokit"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose bool
	NoEnv   bool
	Options []string

	// extra is appended to the connector options; tests use it to replace
	// the session factory.
	extra []cassandra.Option
}

func newRootCommand(extra ...cassandra.Option) *cobra.Command {
	opts := &rootOptions{extra: extra}

	cmd := &cobra.Command{
		Use:           "cqlcheck",
		Short:         "Check Cassandra connection strings",
		Long:          "Parse cassandra:// connection strings and probe the clusters they describe.",
		Version:       cassandra.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log driver activity to stderr")
	cmd.PersistentFlags().BoolVar(&opts.NoEnv, "no-env", false, "ignore CASS_CLIENT_* environment variables")
	cmd.PersistentFlags().StringArrayVarP(&opts.Options, "option", "o", nil, "connection option as key=value, overrides the URI query")

	cmd.AddCommand(newParseCommand(opts))
	cmd.AddCommand(newPingCommand(opts))
	cmd.AddCommand(newOptionsCommand())

	return cmd
}

// optionMap turns repeated key=value flags into the driver's option map.
func (o *rootOptions) optionMap() (map[string]string, error) {
	if len(o.Options) == 0 {
		return nil, nil
	}

	m := make(map[string]string, len(o.Options))
	for _, kv := range o.Options {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q: want key=value", kv)
		}
		m[key] = value
	}

	return m, nil
}

func (o *rootOptions) env() dsn.LookupEnv {
	if o.NoEnv {
		return nil
	}

	return os.LookupEnv
}

// connectorOptions returns the driver options implied by the global flags.
func (o *rootOptions) connectorOptions(stderr io.Writer) []cassandra.Option {
	logger := level.NewFilter(log.NewLogfmtLogger(log.NewSyncWriter(stderr)), level.AllowInfo())
	if o.Verbose {
		logger = level.NewFilter(log.NewLogfmtLogger(log.NewSyncWriter(stderr)), level.AllowDebug())
	}

	opts := []cassandra.Option{
		cassandra.WithEnv(o.env()),
		cassandra.WithLogger(gokit.New(log.With(logger, "ts", log.DefaultTimestampUTC))),
	}

	return append(opts, o.extra...)
}
