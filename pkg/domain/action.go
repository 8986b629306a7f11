package domain

// Action is a named unit of capability over a state of type S.
//
// Applicable must not mutate the state. Apply mutates the state in place and is
// assumed deterministic and total whenever Applicable held.
type Action[S any] interface {
	Name() string
	Applicable(state S) bool
	Apply(state S)
}

type funcAction[S any] struct {
	name   string
	pre    func(S) bool
	effect func(S)
}

// NewAction builds an Action from a precondition and an effect.
// A nil precondition is always applicable; a nil effect is a no-op.
func NewAction[S any](name string, pre func(S) bool, effect func(S)) Action[S] {
	return &funcAction[S]{name: name, pre: pre, effect: effect}
}

func (a *funcAction[S]) Name() string { return a.name }

func (a *funcAction[S]) Applicable(state S) bool {
	if a.pre == nil {
		return true
	}
	return a.pre(state)
}

func (a *funcAction[S]) Apply(state S) {
	if a.effect != nil {
		a.effect(state)
	}
}
