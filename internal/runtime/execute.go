package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/waypoint/pkg/domain"
)

// StepResult describes one plan-then-commit cycle.
type StepResult struct {
	Action      string             `json:"action"`
	GoalReached bool               `json:"goal_reached"`
	Route       []string           `json:"route"`
	Search      domain.SearchStats `json:"search"`
}

// RunReport summarises an execution loop.
type RunReport struct {
	Goal          string   `json:"goal"`
	Committed     []string `json:"committed"`
	Searches      int      `json:"searches"`
	NodesExpanded int      `json:"nodes_expanded"`
	GoalReached   bool     `json:"goal_reached"`
}

// Step re-plans from the real state and commits only the first action of the
// winning route. It fails with domain.ErrNoRoute or domain.ErrBudgetExhausted
// when no route can be selected, and with a *domain.MissingActionError if the
// route names an action that is no longer registered. Nothing is committed on
// error.
func (p *Planner[S]) Step(ctx context.Context, goal string) (*StepResult, error) {
	result, err := p.Search(ctx, goal)
	if err != nil {
		return nil, err
	}
	if !result.Found() {
		return &StepResult{Search: result.Stats}, fmt.Errorf("planning '%s': %w", goal, result.Err())
	}

	next := result.Route.History[0]
	action, ok := p.Lookup(next)
	if !ok {
		return &StepResult{Search: result.Stats}, &domain.MissingActionError{Name: next}
	}

	p.real.Apply(action)
	reached := next == goal

	p.logger.Info("Committed action",
		"action", next,
		"goal", goal,
		"step", len(p.real.History),
		"cost", p.real.State.Cost(),
	)
	p.emitCommit(ctx, goal, next, reached)

	return &StepResult{
		Action:      next,
		GoalReached: reached,
		Route:       append([]string(nil), result.Route.History...),
		Search:      result.Stats,
	}, nil
}

// Run repeats Step until the goal action itself has been committed.
// It stops with an error, never looping silently, when a cycle cannot select a
// route or when the configured step limit is reached.
func (p *Planner[S]) Run(ctx context.Context, goal string) (*RunReport, error) {
	report := &RunReport{Goal: goal}

	for {
		if p.maxSteps > 0 && len(report.Committed) >= p.maxSteps {
			return report, fmt.Errorf("running '%s' after %d steps: %w", goal, len(report.Committed), domain.ErrStepLimit)
		}

		step, err := p.Step(ctx, goal)
		if step != nil {
			report.Searches++
			report.NodesExpanded += step.Search.NodesExpanded
		}
		if err != nil {
			p.logger.Error("Run aborted", "goal", goal, "committed", len(report.Committed), "err", err)
			return report, err
		}

		report.Committed = append(report.Committed, step.Action)
		if step.GoalReached {
			report.GoalReached = true
			p.logger.Info("Goal reached", "goal", goal, "steps", len(report.Committed))
			return report, nil
		}
	}
}
