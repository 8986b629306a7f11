package shop

import (
	_ "embed"

	"github.com/aretw0/waypoint/pkg/catalog"
)

//go:embed shop.yaml
var catalogYAML []byte

// Catalog returns the shop as a declarative catalog: the same five actions
// expressed as facts, so that it can be served and persisted like any other
// catalog.
func Catalog() *catalog.Catalog {
	c, err := catalog.Parse(catalogYAML)
	if err != nil {
		panic("shop: embedded catalog is invalid: " + err.Error())
	}
	return c
}
