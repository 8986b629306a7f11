package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/domain"
)

// ErrNoGoal is returned when neither the request nor the catalog names a goal.
var ErrNoGoal = errors.New("no goal given and catalog has no default goal")

func resolveGoal(c *catalog.Catalog, goal string) (string, error) {
	goal = c.GoalOr(goal)
	if goal == "" {
		return "", ErrNoGoal
	}
	return goal, nil
}

// Possibles lists the actions applicable to the session's committed facts.
func (m *Manager) Possibles(ctx context.Context, sessionID string, c *catalog.Catalog, opts ...runtime.Option) ([]string, error) {
	journal, err := m.LoadOrStart(ctx, sessionID, c)
	if err != nil {
		return nil, err
	}
	return journal.Planner(c, opts...).ShowPossibles(), nil
}

// Plan searches from the session's committed facts without committing anything.
func (m *Manager) Plan(ctx context.Context, sessionID string, c *catalog.Catalog, goal string, opts ...runtime.Option) (*domain.SearchResult[*catalog.Facts], error) {
	goal, err := resolveGoal(c, goal)
	if err != nil {
		return nil, err
	}
	journal, err := m.LoadOrStart(ctx, sessionID, c)
	if err != nil {
		return nil, err
	}
	return journal.Planner(c, opts...).Search(ctx, goal)
}

// Step commits one action towards the goal and persists the session.
func (m *Manager) Step(ctx context.Context, sessionID string, c *catalog.Catalog, goal string, opts ...runtime.Option) (*catalog.Journal, *runtime.StepResult, error) {
	goal, err := resolveGoal(c, goal)
	if err != nil {
		return nil, nil, err
	}

	var step *runtime.StepResult
	journal, err := m.Update(ctx, sessionID, c, func(j *catalog.Journal) error {
		p := j.Planner(c, opts...)
		var stepErr error
		step, stepErr = p.Step(ctx, goal)
		j.Goal = goal
		j.Record(p, stepErr)
		j.Finish(step != nil && step.GoalReached, stepErr)
		return stepErr
	})
	if err != nil {
		return journal, step, fmt.Errorf("session '%s': %w", sessionID, err)
	}
	return journal, step, nil
}

// Run commits actions until the goal is executed and persists the session,
// including the progress made before a failure.
func (m *Manager) Run(ctx context.Context, sessionID string, c *catalog.Catalog, goal string, opts ...runtime.Option) (*catalog.Journal, *runtime.RunReport, error) {
	goal, err := resolveGoal(c, goal)
	if err != nil {
		return nil, nil, err
	}

	var report *runtime.RunReport
	journal, err := m.Update(ctx, sessionID, c, func(j *catalog.Journal) error {
		p := j.Planner(c, opts...)
		var runErr error
		report, runErr = p.Run(ctx, goal)
		j.Goal = goal
		j.Record(p, runErr)
		j.Finish(report != nil && report.GoalReached, runErr)
		return runErr
	})
	if err != nil {
		return journal, report, fmt.Errorf("session '%s': %w", sessionID, err)
	}
	return journal, report, nil
}
