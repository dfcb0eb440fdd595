package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/petasbytes/stock-agent/console"
	"github.com/petasbytes/stock-agent/internal/config"
	"github.com/petasbytes/stock-agent/internal/httpapi"
	"github.com/petasbytes/stock-agent/internal/metrics"
)

const shutdownGrace = 5 * time.Second

func newServeCmd(options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(options.ConfigPath)
			if err != nil {
				return err
			}

			promReg := prometheus.NewRegistry()
			cons := console.New()
			a, err := buildStack(cfg, cons, metrics.NewRecorder(promReg))
			if err != nil {
				return err
			}
			api := httpapi.NewServer(a, httpapi.WithMetricsRegistry(promReg))

			httpServer := &http.Server{
				Addr:    cfg.Server.Addr,
				Handler: api.Handler(),
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				slog.Info("server listening", "addr", cfg.Server.Addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				slog.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
}
