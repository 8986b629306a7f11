package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/waypoint/pkg/domain"
)

// LoggingHooks writes one structured record per lifecycle event.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSearchStart: func(_ context.Context, e *domain.SearchEvent) {
			logger.Debug("search_start", "goal", e.Goal)
		},
		OnSearchComplete: func(_ context.Context, e *domain.SearchEvent) {
			logger.Info("search_complete",
				"goal", e.Goal,
				"outcome", e.Outcome,
				"route", e.Route,
				"cost", e.Cost,
				"nodes", e.Stats.NodesExpanded,
				"routes", e.Stats.RoutesFound,
				"truncated", e.Stats.Truncated,
			)
		},
		OnCommit: func(_ context.Context, e *domain.CommitEvent) {
			logger.Info("commit", "goal", e.Goal, "action", e.Action, "step", e.Step, "cost", e.Cost)
		},
		OnGoalReached: func(_ context.Context, e *domain.CommitEvent) {
			logger.Info("goal_reached", "goal", e.Goal, "steps", e.Step, "cost", e.Cost)
		},
	}
}

// ChainHooks fans every event out to each hook set in order.
func ChainHooks(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var chained domain.LifecycleHooks

	for _, h := range all {
		if h.OnSearchStart != nil {
			prev, next := chained.OnSearchStart, h.OnSearchStart
			chained.OnSearchStart = func(ctx context.Context, e *domain.SearchEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnSearchComplete != nil {
			prev, next := chained.OnSearchComplete, h.OnSearchComplete
			chained.OnSearchComplete = func(ctx context.Context, e *domain.SearchEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnCommit != nil {
			prev, next := chained.OnCommit, h.OnCommit
			chained.OnCommit = func(ctx context.Context, e *domain.CommitEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnGoalReached != nil {
			prev, next := chained.OnGoalReached, h.OnGoalReached
			chained.OnGoalReached = func(ctx context.Context, e *domain.CommitEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}

	return chained
}
