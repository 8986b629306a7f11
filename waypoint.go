package waypoint

import (
	"log/slog"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
)

// Planner is the high-level entry point of the library.
// It owns the committed context and the registered actions for one world.
type Planner[S domain.State[S]] = runtime.Planner[S]

// Option defines a functional option for configuring a Planner.
type Option = runtime.Option

// StepResult describes one plan-then-commit cycle.
type StepResult = runtime.StepResult

// RunReport summarises a completed or aborted execution loop.
type RunReport = runtime.RunReport

// New creates a Planner whose real context starts at the given state.
func New[S domain.State[S]](initial S, opts ...Option) *Planner[S] {
	return runtime.NewPlanner(initial, opts...)
}

// NewWithActions creates a Planner and registers the actions in order.
func NewWithActions[S domain.State[S]](initial S, actions []domain.Action[S], opts ...Option) *Planner[S] {
	p := runtime.NewPlanner(initial, opts...)
	p.AddActions(actions...)
	return p
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return runtime.WithLifecycleHooks(hooks)
}

// WithLogger sets a custom structured logger for the planner.
func WithLogger(logger *slog.Logger) Option {
	return runtime.WithLogger(logger)
}

// WithBudget bounds the depth and node count of every search.
func WithBudget(budget domain.Budget) Option {
	return runtime.WithBudget(budget)
}

// WithMaxSteps caps the number of actions a Run may commit.
func WithMaxSteps(n int) Option {
	return runtime.WithMaxSteps(n)
}
