package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/presentation/tui"
)

func goalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// writeMarkdown renders through glamour when out is a terminal.
func writeMarkdown(out io.Writer, markdown string) {
	if f, ok := out.(*os.File); ok && tui.IsTerminal(f) {
		if rendered, err := tui.NewRenderer()(markdown); err == nil {
			markdown = rendered
		}
	}
	fmt.Fprint(out, markdown)
}

func newPossiblesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "possibles",
		Short: "List the actions applicable right now",
		Args:  cobra.NoArgs,
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

			possibles, err := m.Possibles(ctx, id, c, a.plannerOptions()...)
			if err != nil {
				return err
			}
			for _, name := range possibles {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [goal]",
		Short: "Show the cheapest route to the goal without committing anything",
		Args:  cobra.MaximumNArgs(1),
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

			opts := a.plannerOptions()
			result, err := m.Plan(ctx, id, c, goalArg(args), opts...)
			if err != nil {
				return err
			}
			journal, err := m.LoadOrStart(ctx, id, c)
			if err != nil {
				return err
			}
			possibles, err := m.Possibles(ctx, id, c, opts...)
			if err != nil {
				return err
			}

			view := tui.RouteView{
				Goal:      result.Goal,
				Nodes:     result.Stats.NodesExpanded,
				Routes:    result.Stats.RoutesFound,
				Committed: journal.History,
				Possibles: possibles,
			}
			if result.Found() {
				view.Route = result.Route.History
				view.Cost = result.Route.State.Cost()
			}
			writeMarkdown(cmd.OutOrStdout(), tui.RouteMarkdown(view))
			return result.Err()
		},
	}
}

func newStepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "step [goal]",
		Short: "Commit the first action of the cheapest route",
		Args:  cobra.MaximumNArgs(1),
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

			journal, step, err := m.Step(ctx, id, c, goalArg(args), a.plannerOptions()...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "committed: %s\n", step.Action)
			fmt.Fprintf(out, "route: %s\n", strings.Join(step.Route, " -> "))
			fmt.Fprintf(out, "status: %s\n", journal.Status)
			return nil
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run [goal]",
		Short: "Commit actions until the goal is executed",
		Long: `Re-plans from the committed facts before every commit and stops once the goal
action itself has run. Progress is saved even when the run stops early.`,
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

			journal, report, err := m.Run(ctx, id, c, goalArg(args), a.plannerOptions()...)
			out := cmd.OutOrStdout()
			if report != nil {
				for i, name := range report.Committed {
					fmt.Fprintf(out, "%d. %s\n", i+1, name)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "goal reached: %s (cost %g, %d searches, %d states)\n",
				report.Goal, journal.Facts.Cost(), report.Searches, report.NodesExpanded)
			return nil
		},
	}
}
