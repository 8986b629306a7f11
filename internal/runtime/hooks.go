package runtime

import (
	"context"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
)

func (p *Planner[S]) emitSearchStart(ctx context.Context, goal string) {
	if p.hooks.OnSearchStart == nil {
		return
	}
	p.hooks.OnSearchStart(ctx, &domain.SearchEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventSearchStart,
			Goal:      goal,
		},
	})
}

func (p *Planner[S]) emitSearchComplete(ctx context.Context, result *domain.SearchResult[S]) {
	if p.hooks.OnSearchComplete == nil {
		return
	}
	event := &domain.SearchEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventSearchComplete,
			Goal:      result.Goal,
		},
		Outcome: result.Outcome,
		Stats:   result.Stats,
	}
	if result.Route != nil {
		event.Route = append([]string(nil), result.Route.History...)
		event.Cost = result.Route.State.Cost()
	}
	p.hooks.OnSearchComplete(ctx, event)
}

func (p *Planner[S]) emitCommit(ctx context.Context, goal, action string, goalReached bool) {
	if p.hooks.OnCommit == nil && p.hooks.OnGoalReached == nil {
		return
	}
	event := &domain.CommitEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventCommit,
			Goal:      goal,
		},
		Action: action,
		Step:   len(p.real.History),
		Cost:   p.real.State.Cost(),
	}
	if p.hooks.OnCommit != nil {
		p.hooks.OnCommit(ctx, event)
	}
	if goalReached && p.hooks.OnGoalReached != nil {
		reached := *event
		reached.Type = domain.EventGoalReached
		p.hooks.OnGoalReached(ctx, &reached)
	}
}
