package command

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "publicstore",
		Short:         "Public-read S3 storage: endpoint resolution and unsigned URLs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "file", "f", "",
		"configuration file path (e.g. /etc/publicstore.yml)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newResolveCommand(),
		newURLCommand(),
		newServeCommand(),
	)

	return cmd
}
