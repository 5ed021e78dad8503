package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koustreak/publicstore/internal/filestore/region"
)

func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve REGION",
		Short: "Print the S3 endpoint host for a region code or host",
		Long: "Print the S3 endpoint host for a region code or host.\n\n" +
			"An empty REGION resolves to the client library default and prints " +
			region.DefaultHost + " instead of an empty line.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, err := region.Resolve(args[0])
			if err != nil {
				return err
			}
			if host == "" {
				host = region.DefaultHost
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), host)
			return err
		},
	}
}
