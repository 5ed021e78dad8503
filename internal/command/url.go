package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koustreak/publicstore/internal/filestore/public"
)

func newURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "url NAME...",
		Short: "Print the public URL of each object name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}

			store, err := public.New(cmd.Context(), cfg.FileStore(),
				public.WithOpener(public.Lazy), public.WithLogger(log))
			if err != nil {
				return err
			}
			defer store.Close()

			for _, name := range args {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), store.URL(name)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
