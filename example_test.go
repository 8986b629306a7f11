package waypoint_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/pkg/domain"
)

type door struct {
	Locked, Open, Through bool
	Steps                 int
}

func (d *door) Clone() *door  { c := *d; return &c }
func (d *door) Cost() float64 { return float64(d.Steps) }

func doorActions() []domain.Action[*door] {
	return []domain.Action[*door]{
		domain.NewAction("walkThrough",
			func(d *door) bool { return d.Open && !d.Through },
			func(d *door) { d.Through = true; d.Steps++ }),
		domain.NewAction("unlock",
			func(d *door) bool { return d.Locked },
			func(d *door) { d.Locked = false; d.Steps++ }),
		domain.NewAction("open",
			func(d *door) bool { return !d.Locked && !d.Open },
			func(d *door) { d.Open = true; d.Steps++ }),
	}
}

// ExampleNew shows the planner as a plain library: imagine a route, then run it.
func ExampleNew() {
	planner := waypoint.NewWithActions(&door{Locked: true}, doorActions())
	ctx := context.Background()

	fmt.Println("possible:", planner.ShowPossibles())

	route, found, err := planner.FindImaginedRouteTo(ctx, "walkThrough")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("found:", found, "route:", route.History)

	report, err := planner.Run(ctx, "walkThrough")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("committed:", report.Committed)
	fmt.Println("through:", planner.RealContext().State.Through)

	// Output:
	// possible: [unlock]
	// found: true route: [unlock open walkThrough]
	// committed: [unlock open walkThrough]
	// through: true
}

// ExampleWithLifecycleHooks surfaces commits as structured events instead of prints.
func ExampleWithLifecycleHooks() {
	hooks := domain.LifecycleHooks{
		OnCommit: func(_ context.Context, e *domain.CommitEvent) {
			fmt.Printf("step %d: %s\n", e.Step, e.Action)
		},
		OnGoalReached: func(_ context.Context, e *domain.CommitEvent) {
			fmt.Println("goal reached:", e.Goal)
		},
	}

	planner := waypoint.NewWithActions(&door{}, doorActions(), waypoint.WithLifecycleHooks(hooks))
	if _, err := planner.Run(context.Background(), "walkThrough"); err != nil {
		log.Fatal(err)
	}

	// Output:
	// step 1: open
	// step 2: walkThrough
	// goal reached: walkThrough
}

// ExampleWithBudget shows a bounded search giving up on an unreachable goal.
func ExampleWithBudget() {
	planner := waypoint.NewWithActions(&door{Locked: true}, doorActions(),
		waypoint.WithBudget(domain.Budget{MaxDepth: 2}),
	)

	result, err := planner.Search(context.Background(), "walkThrough")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.Outcome, result.Stats.Truncated)

	// Output:
	// budget_exhausted true
}
