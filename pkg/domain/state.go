package domain

// State is the capability set a world state must provide to be planned over.
//
// Clone must return an independent copy: mutating the copy never affects the
// receiver and vice versa. Cost yields the desirability of the state; lower is
// preferred. The planner only compares the costs of complete candidate routes.
// Neither method may have side effects.
type State[S any] interface {
	Clone() S
	Cost() float64
}
