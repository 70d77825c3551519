package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sanonone/kektorgraph/internal/config"
	"github.com/sanonone/kektorgraph/internal/server"
	"github.com/sanonone/kektorgraph/pkg/graph"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		httpAddr   string
		noSeed     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Run the graph HTTP API, the MCP endpoint and the metrics endpoint.

Without --config the built-in defaults are used. The graph starts with the
sample e-commerce relationships unless seeding is disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if httpAddr != "" {
				cfg.Server.HTTPAddr = httpAddr
			}
			if noSeed {
				cfg.Graph.SeedSampleData = false
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("KEKTORGRAPH_CONFIG"), "path to the YAML configuration file")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "listen address, overrides server.http_addr")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "start with an empty graph")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := cfg.Logging.NewLogger(os.Stderr)

	store := graph.New(cfg.Graph.Options())
	if cfg.Graph.SeedSampleData {
		res := store.Seed()
		logger.Info("Loaded sample data",
			"relationships", res.GraphStats.TotalRelationships,
			"entities", res.GraphStats.TotalEntities,
		)
	}

	srv, err := server.NewServer(store, cfg, logger)
	if err != nil {
		return fmt.Errorf("could not create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(context.Background())
	})
	return g.Wait()
}
