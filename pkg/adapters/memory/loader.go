package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/waypoint/pkg/catalog"
)

// Loader implements ports.CatalogLoader over a catalog built in code.
type Loader struct {
	catalog *catalog.Catalog
}

// NewLoader validates the catalog and wraps it.
func NewLoader(c *catalog.Catalog) (*Loader, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil catalog", catalog.ErrInvalidCatalog)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Loader{catalog: c}, nil
}

// NewFromSpecs builds a catalog from action specs, in order.
func NewFromSpecs(name, goal string, initial map[string]any, specs ...catalog.Spec) (*Loader, error) {
	return NewLoader(&catalog.Catalog{
		Name:    name,
		Goal:    goal,
		Initial: initial,
		Actions: specs,
	})
}

// Load returns the wrapped catalog.
func (l *Loader) Load(_ context.Context) (*catalog.Catalog, error) {
	return l.catalog, nil
}
