package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cassandra "github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver"
)

type optionView struct {
	Key         string   `yaml:"key"`
	Aliases     []string `yaml:"aliases,omitempty"`
	Env         string   `yaml:"env,omitempty"`
	Default     string   `yaml:"default,omitempty"`
	Secret      bool     `yaml:"secret,omitempty"`
	Description string   `yaml:"description"`
}

func newOptionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the recognized connection options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := cassandra.Options()
			views := make([]optionView, 0, len(infos))
			for _, info := range infos {
				views = append(views, optionView(info))
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(views); err != nil {
				return err
			}

			return enc.Close()
		},
	}
}
