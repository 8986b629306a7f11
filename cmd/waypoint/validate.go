package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/validator"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog for consistency",
		Long:  `Loads the catalog and reports actions that can never become applicable, including the goal.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			if err := validator.ValidateCatalog(c); err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog '%s' is valid: %d actions, goal '%s'\n", c.Name, len(c.Actions), c.Goal)
			return nil
		},
	}
}
