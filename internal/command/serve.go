package command

import (
	"github.com/spf13/cobra"

	"github.com/koustreak/publicstore/internal/config"
	"github.com/koustreak/publicstore/internal/filestore/public"
	"github.com/koustreak/publicstore/internal/logger"
	"github.com/koustreak/publicstore/internal/server"
)

var addr string

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve public URLs and redirects over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := load()
	if err != nil {
		return err
	}

	store, err := public.New(cmd.Context(), cfg.FileStore(), public.WithLogger(log))
	if err != nil {
		log.ErrorWith("failed to open storage", err, map[string]any{"bucket": cfg.Storage.Bucket})
		return err
	}
	defer store.Close()

	listen := cfg.Server.Addr
	if addr != "" {
		listen = addr
	}

	return server.New(store, log).ListenAndServe(cmd.Context(), listen)
}

// load reads configuration and builds the logger for a command run.
func load() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	return cfg, logger.New(cfg.Logger()), nil
}
