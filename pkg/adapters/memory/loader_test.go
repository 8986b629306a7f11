package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/catalog"
	contract "github.com/aretw0/waypoint/pkg/ports/tests"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	loader, err := memory.NewFromSpecs("lamp", "read", map[string]any{"dark": true},
		catalog.Spec{Name: "switchOn", Requires: map[string]any{"dark": true}, Effects: map[string]any{"dark": false}},
		catalog.Spec{Name: "read", Requires: map[string]any{"dark": false}},
	)
	require.NoError(t, err)

	contract.CatalogLoaderContractTest(t, loader, []string{"switchOn", "read"})
}

func TestInMemoryLoader_RejectsInvalid(t *testing.T) {
	_, err := memory.NewLoader(nil)
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)

	_, err = memory.NewFromSpecs("empty", "", nil)
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}
