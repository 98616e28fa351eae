package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilewall/internal/config"
	"github.com/matzehuels/tilewall/internal/metrics"
	"github.com/matzehuels/tilewall/internal/server"
	"github.com/matzehuels/tilewall/pkg/cache"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags     config.Flags
		duration  time.Duration
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the live scene over HTTP and websockets",
		Long: `Serve the live scene over HTTP and websockets.

Endpoints:
  GET  /healthz              build info and client count
  GET  /api/arrangements     known arrangements and the current one
  POST /api/arrange/{name}   start a transition
  GET  /api/poses            current poses (?format=json|svg|webp)
  GET  /api/targets/{name}   target poses (?n= overrides the item count)
  GET  /ws                   frame stream; send {"type":"arrange"} to switch
  GET  /metrics              Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("duration") {
				flags.Duration = &duration
			}
			cfg, err := c.loadConfig(flags)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, !noMetrics)
		},
	}

	cmd.Flags().StringVarP(&flags.Addr, "addr", "a", "", "listen address (default :8080)")
	cmd.Flags().StringVarP(&flags.Source, "source", "s", "", "dataset CSV file or URL (default: sample rows)")
	cmd.Flags().IntVarP(&flags.Count, "count", "n", 0, "number of sample rows when no source is given")
	cmd.Flags().DurationVarP(&duration, "duration", "d", config.DefaultDuration, "arrangement change duration")
	cmd.Flags().IntVar(&flags.FPS, "fps", 0, "frames per second")
	cmd.Flags().Uint64Var(&flags.Seed, "seed", 0, "scatter seed")
	cmd.Flags().StringVar(&flags.CacheBackend, "cache", "", "cache backend: "+joinBackends())
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, withMetrics bool) error {
	opts := []server.Option{
		server.WithLogger(component(c.Logger, "server")),
		server.WithFPS(cfg.Animation.FPS),
		server.WithRenderOptions(cfg.RenderOptions()...),
	}
	if withMetrics {
		m := metrics.New(true)
		m.Install()
		opts = append(opts, server.WithMetrics(m.Handler()))
	}

	// Opened after the hooks are installed so cache traffic is counted.
	store, err := c.openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := c.loadRecords(ctx, cfg, store)
	if err != nil {
		return err
	}
	opts = append(opts, server.WithCache(store, nil), server.WithRecords(records))

	sc := c.newScene(cfg, len(records))
	srv := server.New(sc, opts...)

	printSuccess("Serving %d tiles", len(records))
	printKeyValue("Address", cfg.Server.Addr)
	printKeyValue("Cache", cfg.Cache.Backend)
	if withMetrics {
		printKeyValue("Metrics", "/metrics")
	}
	printNewline()

	prog := newProgress(c.Logger)
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		return err
	}
	prog.done("Server stopped", "addr", cfg.Server.Addr)
	return nil
}

func joinBackends() string {
	return strings.Join(cache.Backends(), ", ")
}
