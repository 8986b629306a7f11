package ports

import (
	"context"

	"github.com/aretw0/waypoint/pkg/catalog"
)

// CatalogLoader produces a validated catalog from its backing source.
type CatalogLoader interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// Watchable is implemented by loaders that can report source changes.
// Each value on the channel identifies the changed document.
type Watchable interface {
	Watch(ctx context.Context) (<-chan string, error)
}
