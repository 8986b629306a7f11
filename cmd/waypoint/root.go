package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/internal/logging"
)

// app holds what every command needs once flags are parsed.
type app struct {
	configPath  string
	catalogPath string
	sessionID   string
	debug       bool

	cfg    *config.Config
	logger *slog.Logger
}

// overrideFlags maps persistent flag names to config keys.
var overrideFlags = map[string]string{
	"store":     "store.backend",
	"max-depth": "budget.max_depth",
	"max-nodes": "budget.max_nodes",
	"max-steps": "max_steps",
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "waypoint",
		Short: "Waypoint plans and executes goal-directed action sequences",
		Long: `Waypoint searches every sequence of applicable actions for the cheapest one
ending with a goal action, then commits it one step at a time, re-planning
before every commit.

Without --catalog the built-in shop catalog is used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "Config file (missing file means defaults)")
	flags.StringVarP(&a.catalogPath, "catalog", "c", "", "Catalog file (.yaml, .json) or directory of action documents")
	flags.StringVarP(&a.sessionID, "session", "s", "", "Persist progress under this session ID")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.String("store", "", "Journal store backend: memory, file or redis")
	flags.Int("max-depth", 0, "Search depth bound (0 default, negative unbounded)")
	flags.Int("max-nodes", 0, "Search node bound (0 default, negative unbounded)")
	flags.Int("max-steps", 0, "Maximum commits per run (0 unbounded)")

	root.AddCommand(
		newPossiblesCmd(a),
		newPlanCmd(a),
		newStepCmd(a),
		newRunCmd(a),
		newGraphCmd(a),
		newValidateCmd(a),
		newSessionsCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newDemoCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	overrides := make(map[string]any)
	for flag, key := range overrideFlags {
		f := cmd.Flags().Lookup(flag)
		if f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}
	if a.debug {
		overrides["log_level"] = "debug"
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Level(), false)
	return nil
}
