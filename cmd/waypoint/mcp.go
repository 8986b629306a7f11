package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/pkg/adapters/mcp"
	"github.com/aretw0/waypoint/pkg/ports"
)

func newMCPCmd(a *app) *cobra.Command {
	var (
		transport string
		port      int
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the catalog as MCP tools (show_possibles, plan_route, run_goal) and
the resource waypoint://catalog. Tools are stateless: callers pass the facts
returned by the previous call.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
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

			srv := mcp.NewServer(c,
				mcp.WithPlannerOptions(a.cfg.PlannerOptions()...),
				mcp.WithLogger(a.logger),
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

			switch transport {
			case "stdio":
				// Stdout carries JSON-RPC.
				log.SetOutput(os.Stderr)
				a.logger.Info("Starting MCP server (stdio)", "catalog", c.Name)
				return srv.ServeStdio()
			case "sse":
				if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				a.logger.Info("MCP server stopped gracefully")
				return nil
			default:
				return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (only for SSE)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the catalog when its documents change")
	return cmd
}
