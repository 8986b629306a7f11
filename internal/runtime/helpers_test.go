package runtime_test

import (
	"sort"

	"github.com/aretw0/waypoint/pkg/domain"
)

// world is a flag-based test state; its cost is the sum of the costs of the
// rules applied to it.
type world struct {
	Flags map[string]bool
	Spent float64
}

func newWorld(flags ...string) *world {
	w := &world{Flags: make(map[string]bool)}
	for _, f := range flags {
		w.Flags[f] = true
	}
	return w
}

func (w *world) Clone() *world {
	flags := make(map[string]bool, len(w.Flags))
	for k, v := range w.Flags {
		flags[k] = v
	}
	return &world{Flags: flags, Spent: w.Spent}
}

func (w *world) Cost() float64 { return w.Spent }

func (w *world) set() []string {
	var out []string
	for k, v := range w.Flags {
		if v {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

type rule struct {
	name     string
	cost     float64
	requires []string
	forbids  []string
	sets     []string
	clears   []string
}

func (r rule) action() domain.Action[*world] {
	return domain.NewAction(r.name,
		func(w *world) bool {
			for _, f := range r.requires {
				if !w.Flags[f] {
					return false
				}
			}
			for _, f := range r.forbids {
				if w.Flags[f] {
					return false
				}
			}
			return true
		},
		func(w *world) {
			for _, f := range r.sets {
				w.Flags[f] = true
			}
			for _, f := range r.clears {
				delete(w.Flags, f)
			}
			cost := r.cost
			if cost == 0 {
				cost = 1
			}
			w.Spent += cost
		},
	)
}

func actions(rules ...rule) []domain.Action[*world] {
	out := make([]domain.Action[*world], len(rules))
	for i, r := range rules {
		out[i] = r.action()
	}
	return out
}

// chain is a three step domain: prepare -> assemble -> ship.
func chain() []domain.Action[*world] {
	return actions(
		rule{name: "ship", requires: []string{"assembled"}, forbids: []string{"shipped"}, sets: []string{"shipped"}},
		rule{name: "assemble", requires: []string{"prepared"}, forbids: []string{"assembled"}, sets: []string{"assembled"}},
		rule{name: "prepare", forbids: []string{"prepared"}, sets: []string{"prepared"}},
	)
}

// renamingAction reports its first name once (at registration) and a different
// name afterwards, simulating an action set that changed under a run.
type renamingAction struct {
	first, later string
	calls        int
}

func (a *renamingAction) Name() string {
	a.calls++
	if a.calls == 1 {
		return a.first
	}
	return a.later
}

func (a *renamingAction) Applicable(w *world) bool { return !w.Flags["renamed"] }

func (a *renamingAction) Apply(w *world) {
	w.Flags["renamed"] = true
	w.Spent++
}
