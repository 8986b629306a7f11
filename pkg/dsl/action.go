package dsl

import "github.com/aretw0/waypoint/pkg/catalog"

// ActionBuilder provides a fluent API for configuring an action.
type ActionBuilder struct {
	spec catalog.Spec
}

// Requires adds a precondition: the fact must equal value.
func (a *ActionBuilder) Requires(name string, value any) *ActionBuilder {
	a.spec.Requires[name] = value
	return a
}

// Unset adds a precondition: the fact must not be set.
func (a *ActionBuilder) Unset(name string) *ActionBuilder {
	a.spec.Requires[name] = nil
	return a
}

// Sets adds an effect assigning value to the fact.
func (a *ActionBuilder) Sets(name string, value any) *ActionBuilder {
	a.spec.Effects[name] = value
	return a
}

// Clears adds an effect removing the fact.
func (a *ActionBuilder) Clears(name string) *ActionBuilder {
	a.spec.Effects[name] = nil
	return a
}

// Cost overrides the default cost of one.
func (a *ActionBuilder) Cost(cost float64) *ActionBuilder {
	a.spec.Cost = &cost
	return a
}

// Describe sets the action description.
func (a *ActionBuilder) Describe(text string) *ActionBuilder {
	a.spec.Description = text
	return a
}

// Build returns a copy of the underlying catalog.Spec.
// This is primarily used by the Builder, but exposed for advanced usage.
func (a *ActionBuilder) Build() catalog.Spec {
	spec := a.spec
	spec.Requires = copyMap(a.spec.Requires)
	spec.Effects = copyMap(a.spec.Effects)
	if a.spec.Cost != nil {
		cost := *a.spec.Cost
		spec.Cost = &cost
	}
	return spec
}

func copyMap(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
