package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/pkg/shop"
)

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Fulfil an order with the built-in shop planner",
		Long: `Runs the shop example written against the Go API: a typed order state and
five actions. Shows what is possible, the imagined route, and the order log
after the route has been executed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			p := shop.NewPlanner(nil, a.plannerOptions()...)

			fmt.Fprintf(out, "possible: %v\n", p.ShowPossibles())

			route, found, err := p.FindImaginedRouteTo(ctx, shop.DispatchItem)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no route to %s", shop.DispatchItem)
			}
			fmt.Fprintf(out, "imagined: %v\n", route.History)

			if _, err := p.Run(ctx, shop.DispatchItem); err != nil {
				return err
			}
			for _, did := range p.RealContext().State.Dids {
				fmt.Fprintf(out, "- %s\n", did)
			}
			return nil
		},
	}
}
