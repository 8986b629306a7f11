package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/internal/presentation/tui"
	httpAdapter "github.com/aretw0/waypoint/pkg/adapters/http"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/observability"
	"github.com/aretw0/waypoint/pkg/ports"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serves the catalog over a JSON API. Sessions are kept in the configured
journal store. Metrics are exposed on /metrics and the API description on
/openapi.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			l, err := a.loader()
			if err != nil {
				return err
			}
			c, err := l.Load(ctx)
			if err != nil {
				return err
			}
			m, closer, err := a.manager()
			if err != nil {
				return err
			}
			defer closer()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			metrics := observability.NewMetrics(reg)

			srv := httpAdapter.NewServer(c, m,
				httpAdapter.WithPlannerOptions(a.plannerOptions(metrics.Hooks())...),
				httpAdapter.WithMetrics(reg),
				httpAdapter.WithVersion(strings.TrimSpace(waypoint.Version)),
				httpAdapter.WithLogger(a.logger),
			)

			if watch {
				w, ok := l.(ports.Watchable)
				if !ok {
					return errors.New("--watch needs a catalog directory")
				}
				if err := watchCatalog(ctx, a, l, w, srv.SetCatalog); err != nil {
					return err
				}
			}

			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}
			httpServer := &http.Server{
				Addr:              addr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			if tui.IsTerminal(os.Stderr) {
				tui.PrintBanner(cmd.ErrOrStderr(), strings.TrimSpace(waypoint.Version))
			}

			serverErrors := make(chan error, 1)
			go func() {
				a.logger.Info("HTTP server listening", "address", addr, "catalog", c.Name, "store", a.cfg.Store.Backend)
				serverErrors <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-serverErrors:
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				a.logger.Info("Shutting down HTTP server")
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("Graceful shutdown did not complete", "err", err)
					return httpServer.Close()
				}
				return nil
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to http.addr from the config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the catalog when its documents change")
	return cmd
}

// watchCatalog reloads the catalog on every change. A catalog that fails to
// load is logged and the previous one keeps being served.
func watchCatalog(ctx context.Context, a *app, l ports.CatalogLoader, w ports.Watchable, apply func(*catalog.Catalog)) error {
	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	go func() {
		for id := range events {
			c, err := l.Load(ctx)
			if err != nil {
				a.logger.Error("Catalog reload failed", "changed", id, "err", err)
				continue
			}
			a.logger.Info("Catalog reloaded", "changed", id, "actions", len(c.Actions))
			apply(c)
		}
	}()
	return nil
}
