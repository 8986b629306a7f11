package runtime

import (
	"log/slog"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/pkg/domain"
)

// settings holds the non-generic configuration shared by every Planner.
type settings struct {
	budget   domain.Budget
	maxSteps int
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	history  []string
}

func defaultSettings() settings {
	return settings{
		budget: domain.Budget{}.Normalize(),
		logger: logging.NewNop(),
	}
}

// Option defines a functional option for configuring a Planner.
type Option func(*settings)

// WithBudget bounds every search the planner performs.
func WithBudget(budget domain.Budget) Option {
	return func(s *settings) {
		s.budget = budget.Normalize()
	}
}

// WithMaxSteps caps the number of actions Run may commit. Zero or negative means unbounded.
func WithMaxSteps(n int) Option {
	return func(s *settings) {
		s.maxSteps = n
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithLogger sets the structured logger. A nil logger keeps the no-op default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHistory seeds the real context's history, for planners resumed from a
// persisted state whose actions were committed earlier.
func WithHistory(history []string) Option {
	return func(s *settings) {
		s.history = append([]string(nil), history...)
	}
}
