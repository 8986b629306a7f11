package catalog

import (
	"errors"
	"fmt"

	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
)

// ErrInvalidCatalog is wrapped by every validation failure.
var ErrInvalidCatalog = errors.New("invalid catalog")

// DefaultActionCost is charged by an action spec with no explicit cost.
const DefaultActionCost = 1.0

// Spec declares one action.
type Spec struct {
	Name        string         `json:"name" yaml:"name" mapstructure:"name"`
	Requires    map[string]any `json:"requires,omitempty" yaml:"requires,omitempty" mapstructure:"requires"`
	Effects     map[string]any `json:"effects,omitempty" yaml:"effects,omitempty" mapstructure:"effects"`
	Cost        *float64       `json:"cost,omitempty" yaml:"cost,omitempty" mapstructure:"cost"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
}

// EffectiveCost returns the declared cost or DefaultActionCost.
func (s Spec) EffectiveCost() float64 {
	if s.Cost == nil {
		return DefaultActionCost
	}
	return *s.Cost
}

// Action builds the planner action for this spec.
func (s Spec) Action() domain.Action[*Facts] {
	requires := copyValues(s.Requires)
	effects := copyValues(s.Effects)
	cost := s.EffectiveCost()
	name := s.Name

	return domain.NewAction(name,
		func(f *Facts) bool { return f.Satisfies(requires) },
		func(f *Facts) {
			for k, v := range effects {
				f.Set(k, v)
			}
			f.Applied = append(f.Applied, name)
			f.Spent += cost
		},
	)
}

// Catalog is a declarative planning world.
type Catalog struct {
	Name        string         `json:"name" yaml:"name" mapstructure:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Goal        string         `json:"goal,omitempty" yaml:"goal,omitempty" mapstructure:"goal"`
	Initial     map[string]any `json:"initial,omitempty" yaml:"initial,omitempty" mapstructure:"initial"`
	Actions     []Spec         `json:"actions" yaml:"actions" mapstructure:"actions"`
}

// Validate rejects unnamed or duplicate actions, non-scalar values, negative
// costs and a goal that names no action.
func (c *Catalog) Validate() error {
	if len(c.Actions) == 0 {
		return fmt.Errorf("%w: no actions declared", ErrInvalidCatalog)
	}
	seen := make(map[string]bool, len(c.Actions))
	for i, spec := range c.Actions {
		if spec.Name == "" {
			return fmt.Errorf("%w: action #%d has no name", ErrInvalidCatalog, i+1)
		}
		if seen[spec.Name] {
			return fmt.Errorf("%w: duplicate action '%s'", ErrInvalidCatalog, spec.Name)
		}
		seen[spec.Name] = true

		if spec.EffectiveCost() < 0 {
			return fmt.Errorf("%w: action '%s' has negative cost", ErrInvalidCatalog, spec.Name)
		}
		if err := checkValues(spec.Requires); err != nil {
			return fmt.Errorf("%w: action '%s' requires: %v", ErrInvalidCatalog, spec.Name, err)
		}
		if err := checkValues(spec.Effects); err != nil {
			return fmt.Errorf("%w: action '%s' effects: %v", ErrInvalidCatalog, spec.Name, err)
		}
	}
	if err := checkValues(c.Initial); err != nil {
		return fmt.Errorf("%w: initial: %v", ErrInvalidCatalog, err)
	}
	if c.Goal != "" && !seen[c.Goal] {
		return fmt.Errorf("%w: goal '%s' is not a declared action", ErrInvalidCatalog, c.Goal)
	}
	return nil
}

// Spec returns the declared action with the given name.
func (c *Catalog) Spec(name string) (Spec, bool) {
	for _, s := range c.Actions {
		if s.Name == name {
			return s, true
		}
	}
	return Spec{}, false
}

// BuildActions returns one planner action per spec, in declaration order.
func (c *Catalog) BuildActions() []domain.Action[*Facts] {
	out := make([]domain.Action[*Facts], len(c.Actions))
	for i, spec := range c.Actions {
		out[i] = spec.Action()
	}
	return out
}

// InitialFacts returns a fresh state holding the initial facts.
func (c *Catalog) InitialFacts() *Facts {
	return NewFacts(c.Initial)
}

// NewPlanner builds a planner starting from the catalog's initial facts.
func (c *Catalog) NewPlanner(opts ...runtime.Option) *runtime.Planner[*Facts] {
	return c.PlannerFrom(c.InitialFacts(), opts...)
}

// PlannerFrom builds a planner over the catalog's actions starting at facts.
func (c *Catalog) PlannerFrom(facts *Facts, opts ...runtime.Option) *runtime.Planner[*Facts] {
	if facts == nil {
		facts = c.InitialFacts()
	}
	p := runtime.NewPlanner(facts, opts...)
	p.AddActions(c.BuildActions()...)
	return p
}

// GoalOr returns goal if set, otherwise the catalog default.
func (c *Catalog) GoalOr(goal string) string {
	if goal != "" {
		return goal
	}
	return c.Goal
}

func copyValues(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = Normalize(v)
	}
	return out
}

func checkValues(values map[string]any) error {
	for k, v := range values {
		if err := checkScalar(v); err != nil {
			return fmt.Errorf("fact '%s': %w", k, err)
		}
	}
	return nil
}
