/*
Package waypoint is a goal-directed action planner.

Given a mutable world state, a set of named actions (each a precondition plus an
in-place effect) and the name of a goal action, waypoint searches every legal
action sequence that makes the goal applicable, picks the cheapest one by the
state's own cost, and commits only its first step before planning again.

# Concept

The planner separates the committed world (the real context) from speculative
exploration (imagined contexts). A search clones the real state once and then
clones again before every candidate action, so branches never see each other's
effects. The execution loop re-plans from the real state after every single
commit, which keeps it honest even when effects surprise the model.

# Key Features

  - Generic: any type with Clone and Cost can be planned over.
  - Deterministic: ties between equally cheap routes go to the first one found in registration order.
  - Bounded: searches carry a depth horizon and a node budget instead of recursing forever.
  - Observable: lifecycle hooks report searches and commits for logging and metrics.

# Usage

	type Door struct{ Open, Through bool }

	func (d *Door) Clone() *Door   { c := *d; return &c }
	func (d *Door) Cost() float64 { return 0 }

	planner := waypoint.New(&Door{})
	planner.AddActions(
		domain.NewAction("open", func(d *Door) bool { return !d.Open }, func(d *Door) { d.Open = true }),
		domain.NewAction("walk", func(d *Door) bool { return d.Open && !d.Through }, func(d *Door) { d.Through = true }),
	)

	report, err := planner.Run(context.Background(), "walk")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Committed) // [open walk]
*/
package waypoint
