package runtime

import (
	"context"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
)

// Search explores every action sequence reachable from a clone of the real
// state and selects the cheapest one that ends with the goal action.
//
// Traversal is depth-first over an explicit stack. Each candidate action is
// applied to its own clone of the node context, so siblings never observe each
// other's effects. Children are pushed in reverse so that they pop in
// registration order, which makes the first-found tie-break deterministic.
// Once the goal is applicable at a node, that node yields exactly one route and
// is not expanded further.
//
// The only error returned is the context's, when it is cancelled mid-search.
func (p *Planner[S]) Search(ctx context.Context, goal string) (*domain.SearchResult[S], error) {
	started := time.Now()
	p.emitSearchStart(ctx, goal)

	budget := p.budget
	stats := domain.SearchStats{}

	var (
		best      *domain.Context[S]
		bestCost  float64
		exhausted bool
	)

	stack := []*domain.Context[S]{domain.NewContext(p.real.State.Clone())}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if budget.MaxNodes >= 0 && stats.NodesExpanded >= budget.MaxNodes {
			exhausted = true
			break
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stats.NodesExpanded++

		depth := node.Depth()
		if depth > stats.MaxDepthReached {
			stats.MaxDepthReached = depth
		}

		possibles := p.applicable(node.State)
		if goalAction, ok := findByName(possibles, goal); ok {
			// The node was popped and no child references it: it becomes the route.
			node.Apply(goalAction)
			stats.RoutesFound++
			if cost := node.State.Cost(); best == nil || cost < bestCost {
				best, bestCost = node, cost
			}
			continue
		}
		if len(possibles) == 0 {
			continue
		}

		// A child at depth+1 needs at least one more action to reach the goal.
		if budget.MaxDepth >= 0 && depth+2 > budget.MaxDepth {
			stats.Truncated = true
			continue
		}

		for i := len(possibles) - 1; i >= 0; i-- {
			child := node.Clone()
			child.Apply(possibles[i])
			stack = append(stack, child)
		}
	}

	stats.Duration = time.Since(started)
	result := &domain.SearchResult[S]{
		Goal:  goal,
		Route: best,
		Stats: stats,
	}
	switch {
	case exhausted:
		result.Outcome = domain.OutcomeBudgetExhausted
	case best != nil:
		result.Outcome = domain.OutcomeFound
	case stats.Truncated:
		result.Outcome = domain.OutcomeBudgetExhausted
	default:
		result.Outcome = domain.OutcomeNoRoute
	}

	p.logger.Debug("Search complete",
		"goal", goal,
		"outcome", result.Outcome,
		"nodes", stats.NodesExpanded,
		"routes", stats.RoutesFound,
		"duration", stats.Duration,
	)
	p.emitSearchComplete(ctx, result)

	return result, nil
}

// FindImaginedRouteTo returns the winning imagined context for the goal.
// found is false with a nil error when no route exists; a budget exhaustion is
// reported as domain.ErrBudgetExhausted.
func (p *Planner[S]) FindImaginedRouteTo(ctx context.Context, goal string) (route *domain.Context[S], found bool, err error) {
	result, err := p.Search(ctx, goal)
	if err != nil {
		return nil, false, err
	}
	switch result.Outcome {
	case domain.OutcomeFound:
		return result.Route, true, nil
	case domain.OutcomeBudgetExhausted:
		return nil, false, domain.ErrBudgetExhausted
	default:
		return nil, false, nil
	}
}

func findByName[S any](actions []domain.Action[S], name string) (domain.Action[S], bool) {
	for _, a := range actions {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}
