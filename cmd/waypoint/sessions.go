package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionsCmd(a *app) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions, or delete the one named by --session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if remove && a.sessionID == "" {
				return errors.New("--delete requires --session")
			}
			m, closer, err := a.manager()
			if err != nil {
				return err
			}
			defer closer()

			if remove {
				if err := m.Delete(cmd.Context(), a.sessionID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", a.sessionID)
				return nil
			}

			ids, err := m.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "delete", false, "Delete the session")
	return cmd
}
