// Package tests holds reusable contract suites for port adapters.
package tests

import (
	"context"
	"testing"

	"github.com/aretw0/waypoint/pkg/ports"
)

// CatalogLoaderContractTest verifies that an adapter complies with
// ports.CatalogLoader: it returns a valid catalog whose actions appear in the
// expected registration order.
func CatalogLoaderContractTest(t *testing.T, loader ports.CatalogLoader, wantActions []string) {
	t.Helper()

	t.Run("Load_Success", func(t *testing.T) {
		c, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading catalog: %v", err)
		}
		if err := c.Validate(); err != nil {
			t.Fatalf("loader returned an invalid catalog: %v", err)
		}
		if len(c.Actions) != len(wantActions) {
			t.Fatalf("action count mismatch. got %d, want %d", len(c.Actions), len(wantActions))
		}
		for i, name := range wantActions {
			if c.Actions[i].Name != name {
				t.Errorf("action #%d mismatch. got %q, want %q", i, c.Actions[i].Name, name)
			}
		}
	})

	t.Run("Load_Repeatable", func(t *testing.T) {
		first, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(first.Actions) != len(second.Actions) || first.Goal != second.Goal {
			t.Error("loading twice returned different catalogs")
		}
	})
}
