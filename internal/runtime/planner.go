package runtime

import (
	"github.com/aretw0/waypoint/pkg/domain"
)

// Planner owns the committed (real) context and the registered action set.
//
// The real context is mutated only by Step and Run; searches work on imagined
// clones. A Planner is not safe for concurrent use.
type Planner[S domain.State[S]] struct {
	real    *domain.Context[S]
	actions []domain.Action[S]
	index   map[string]int

	settings
}

// NewPlanner wraps the initial state into the real context.
func NewPlanner[S domain.State[S]](initial S, opts ...Option) *Planner[S] {
	p := &Planner[S]{
		real:     domain.NewContext(initial),
		index:    make(map[string]int),
		settings: defaultSettings(),
	}
	for _, opt := range opts {
		opt(&p.settings)
	}
	if len(p.history) > 0 {
		p.real.History = append(p.real.History, p.history...)
	}
	return p
}

// AddActions appends actions to the registered set, keeping registration order.
// Names should be unique; a duplicate is kept but only the first registration
// is reachable by name, so goal matching becomes ambiguous.
func (p *Planner[S]) AddActions(actions ...domain.Action[S]) {
	for _, action := range actions {
		name := action.Name()
		if _, exists := p.index[name]; exists {
			p.logger.Warn("Duplicate action name registered", "action", name)
		} else {
			p.index[name] = len(p.actions)
		}
		p.actions = append(p.actions, action)
	}
}

// Actions returns the registered actions in registration order.
func (p *Planner[S]) Actions() []domain.Action[S] {
	out := make([]domain.Action[S], len(p.actions))
	copy(out, p.actions)
	return out
}

// Lookup returns the first registered action with the given name.
func (p *Planner[S]) Lookup(name string) (domain.Action[S], bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.actions[i], true
}

// RealContext returns the committed context. Callers must treat it as read-only.
func (p *Planner[S]) RealContext() *domain.Context[S] {
	return p.real
}

// History returns a copy of the names of the actions actually committed.
func (p *Planner[S]) History() []string {
	out := make([]string, len(p.real.History))
	copy(out, p.real.History)
	return out
}

// Budget returns the search bounds in effect.
func (p *Planner[S]) Budget() domain.Budget {
	return p.budget
}

// ShowPossibles returns the names of the actions applicable to the real state,
// in registration order.
func (p *Planner[S]) ShowPossibles() []string {
	possibles := p.applicable(p.real.State)
	names := make([]string, len(possibles))
	for i, a := range possibles {
		names[i] = a.Name()
	}
	return names
}

func (p *Planner[S]) applicable(state S) []domain.Action[S] {
	var out []domain.Action[S]
	for _, a := range p.actions {
		if a.Applicable(state) {
			out = append(out, a)
		}
	}
	return out
}
