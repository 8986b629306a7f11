package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/presentation/graph"
)

func newGraphCmd(a *app) *cobra.Command {
	var route bool

	cmd := &cobra.Command{
		Use:   "graph [goal]",
		Short: "Export the catalog as a Mermaid diagram",
		Long: `Outputs a Mermaid flowchart of the catalog. An edge A --> B means A sets a
fact that B requires. Committed actions and the next planned action are
highlighted. With --route only the committed history and the planned route
are drawn.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.loadCatalog(ctx)
			if err != nil {
				return err
			}
			m, id, closer, err := a.sessions()
			if err != nil {
				return err
			}
			defer closer()

			journal, err := m.LoadOrStart(ctx, id, c)
			if err != nil {
				return err
			}

			var planned []string
			if c.GoalOr(goalArg(args)) != "" {
				result, err := m.Plan(ctx, id, c, goalArg(args), a.plannerOptions()...)
				if err != nil {
					return err
				}
				if result.Found() {
					planned = result.Route.History
				}
			}

			if route {
				full := append(append([]string{}, journal.History...), planned...)
				fmt.Fprint(cmd.OutOrStdout(), graph.RouteMermaid(full, len(journal.History)))
				return nil
			}

			overlay := &graph.Overlay{Committed: journal.History}
			if len(planned) > 0 {
				overlay.Next = planned[0]
			}
			fmt.Fprint(cmd.OutOrStdout(), graph.CatalogMermaid(c, overlay))
			return nil
		},
	}
	cmd.Flags().BoolVar(&route, "route", false, "Draw the route instead of the whole catalog")
	return cmd
}
