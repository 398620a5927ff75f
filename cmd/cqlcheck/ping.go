package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	cassandra "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

const releaseQuery = "SELECT release_version FROM system.local"

type pingOptions struct {
	Timeout time.Duration
}

func newPingCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &pingOptions{}

	cmd := &cobra.Command{
		Use:   "ping <uri>",
		Short: "Connect to a cluster and report its release version",
		Long: `Open a session the way the driver does, verify the keyspace and report the
server release. Failures are printed with their class: configuration,
transport or value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			return runPing(ctx, cmd, rootOpts, args[0])
		},
	}

	cmd.Flags().DurationVarP(&opts.Timeout, "timeout", "t", 30*time.Second, "overall deadline")

	return cmd
}

func runPing(ctx context.Context, cmd *cobra.Command, rootOpts *rootOptions, uri string) error {
	options, err := rootOpts.optionMap()
	if err != nil {
		return err
	}

	connector, err := cassandra.NewConnector(uri, options, rootOpts.connectorOptions(cmd.ErrOrStderr())...)
	if err != nil {
		return err
	}

	db := sql.OpenDB(connector)
	defer db.Close()

	start := time.Now()
	var release string
	if err := db.QueryRowContext(ctx, releaseQuery).Scan(&release); err != nil {
		return fmt.Errorf("%s error: %w", types.Classify(err), err)
	}

	d := connector.Descriptor()
	fmt.Fprintf(cmd.OutOrStdout(), "ok hosts=%v keyspace=%s release=%s elapsed=%s\n",
		d.HostStrings(), d.Keyspace.Quoted(), release, time.Since(start).Round(time.Millisecond))

	return nil
}
