package dsl

import (
	"fmt"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/catalog"
)

// Builder manages the catalog construction.
type Builder struct {
	name        string
	description string
	goal        string
	initial     map[string]any
	order       []string
	actions     map[string]*ActionBuilder
}

// New creates a new catalog builder.
func New(name string) *Builder {
	return &Builder{
		name:    name,
		initial: make(map[string]any),
		actions: make(map[string]*ActionBuilder),
	}
}

// Describe sets the catalog description.
func (b *Builder) Describe(text string) *Builder {
	b.description = text
	return b
}

// Goal sets the default goal action.
func (b *Builder) Goal(name string) *Builder {
	b.goal = name
	return b
}

// Initial sets a starting fact.
func (b *Builder) Initial(name string, value any) *Builder {
	b.initial[name] = value
	return b
}

// Add creates a new action in the catalog.
// If the action already exists, it returns the existing builder.
func (b *Builder) Add(name string) *ActionBuilder {
	if ab, ok := b.actions[name]; ok {
		return ab
	}
	ab := &ActionBuilder{
		spec: catalog.Spec{
			Name:     name,
			Requires: make(map[string]any),
			Effects:  make(map[string]any),
		},
	}
	b.actions[name] = ab
	b.order = append(b.order, name)
	return ab
}

// Catalog compiles and validates the catalog.
func (b *Builder) Catalog() (*catalog.Catalog, error) {
	c := &catalog.Catalog{
		Name:        b.name,
		Description: b.description,
		Goal:        b.goal,
		Initial:     make(map[string]any, len(b.initial)),
		Actions:     make([]catalog.Spec, 0, len(b.order)),
	}
	for k, v := range b.initial {
		c.Initial[k] = v
	}
	for _, name := range b.order {
		c.Actions = append(c.Actions, b.actions[name].Build())
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Build compiles the catalog into a memory loader.
func (b *Builder) Build() (*memory.Loader, error) {
	c, err := b.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog '%s': %w", b.name, err)
	}
	return memory.NewLoader(c)
}
