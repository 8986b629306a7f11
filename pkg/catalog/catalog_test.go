package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/pkg/catalog"
	"github.com/aretw0/waypoint/pkg/domain"
)

func TestFacts_Satisfies(t *testing.T) {
	f := catalog.NewFacts(map[string]any{"at": "home", "fuel": 2, "open": true})

	tests := []struct {
		name     string
		requires map[string]any
		want     bool
	}{
		{"empty", nil, true},
		{"string equal", map[string]any{"at": "home"}, true},
		{"string differs", map[string]any{"at": "work"}, false},
		{"int vs float", map[string]any{"fuel": 2.0}, true},
		{"int vs int64", map[string]any{"fuel": int64(2)}, true},
		{"bool", map[string]any{"open": true}, true},
		{"absent required", map[string]any{"key": nil}, true},
		{"present but absence required", map[string]any{"at": nil}, false},
		{"missing fact", map[string]any{"key": "gold"}, false},
		{"all of", map[string]any{"at": "home", "open": false}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Satisfies(tt.requires))
		})
	}
}

func TestFacts_CloneIsIndependent(t *testing.T) {
	f := catalog.NewFacts(map[string]any{"a": true})
	f.Applied = append(f.Applied, "x")
	f.Spent = 1

	c := f.Clone()
	c.Set("a", nil)
	c.Set("b", 3)
	c.Applied = append(c.Applied, "y")
	c.Spent = 4

	_, hasA := f.Get("a")
	_, hasB := f.Get("b")
	assert.True(t, hasA)
	assert.False(t, hasB)
	assert.Equal(t, []string{"x"}, f.Applied)
	assert.Equal(t, 1.0, f.Cost())
	assert.Equal(t, []string{"b"}, c.Keys())
}

func TestSpec_Action(t *testing.T) {
	cost := 2.5
	spec := catalog.Spec{
		Name:     "unlock",
		Requires: map[string]any{"locked": true, "key": "brass"},
		Effects:  map[string]any{"locked": false, "key": nil},
		Cost:     &cost,
	}
	action := spec.Action()
	assert.Equal(t, "unlock", action.Name())

	f := catalog.NewFacts(map[string]any{"locked": true})
	assert.False(t, action.Applicable(f))

	f.Set("key", "brass")
	require.True(t, action.Applicable(f))

	action.Apply(f)
	assert.Equal(t, false, f.Values["locked"])
	_, hasKey := f.Get("key")
	assert.False(t, hasKey)
	assert.Equal(t, []string{"unlock"}, f.Applied)
	assert.Equal(t, 2.5, f.Cost())
	assert.False(t, action.Applicable(f))
}

func TestSpec_DefaultCost(t *testing.T) {
	assert.Equal(t, catalog.DefaultActionCost, catalog.Spec{Name: "a"}.EffectiveCost())
	zero := 0.0
	assert.Equal(t, 0.0, catalog.Spec{Name: "a", Cost: &zero}.EffectiveCost())
}

func TestCatalog_Validate(t *testing.T) {
	negative := -1.0
	tests := []struct {
		name    string
		catalog catalog.Catalog
		wantErr string
	}{
		{"no actions", catalog.Catalog{Name: "x"}, "no actions"},
		{"unnamed", catalog.Catalog{Actions: []catalog.Spec{{}}}, "has no name"},
		{"duplicate", catalog.Catalog{Actions: []catalog.Spec{{Name: "a"}, {Name: "a"}}}, "duplicate action 'a'"},
		{"negative cost", catalog.Catalog{Actions: []catalog.Spec{{Name: "a", Cost: &negative}}}, "negative cost"},
		{"composite value", catalog.Catalog{Actions: []catalog.Spec{{Name: "a", Effects: map[string]any{"x": []any{1}}}}}, "unsupported value type"},
		{"unknown goal", catalog.Catalog{Goal: "b", Actions: []catalog.Spec{{Name: "a"}}}, "goal 'b'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	valid := catalog.Catalog{Goal: "a", Actions: []catalog.Spec{{Name: "a"}}}
	assert.NoError(t, valid.Validate())
}

func TestLoad_ShopYAML(t *testing.T) {
	c, err := catalog.Load("testdata/shop.yaml")
	require.NoError(t, err)
	assert.Equal(t, "shop", c.Name)
	assert.Equal(t, "dispatchItem", c.Goal)
	require.Len(t, c.Actions, 5)

	getPayment, ok := c.Spec("getPayment")
	require.True(t, ok)
	require.Contains(t, getPayment.Requires, "paid")
	assert.Nil(t, getPayment.Requires["paid"])

	p := c.NewPlanner()
	assert.Equal(t, []string{"packageItem", "getAddress", "addVoucher"}, p.ShowPossibles())

	report, err := p.Run(context.Background(), c.Goal)
	require.NoError(t, err)
	assert.Equal(t, []string{"packageItem", "getAddress", "getPayment", "addVoucher", "dispatchItem"}, report.Committed)

	final := p.RealContext().State
	assert.Equal(t, true, final.Values["dispatched"])
	assert.Equal(t, 5.0, final.Cost())
	assert.Equal(t, report.Committed, final.Applied)
}

func TestLoad_TravelJSON(t *testing.T) {
	c, err := catalog.Load("testdata/travel.json")
	require.NoError(t, err)

	p := c.NewPlanner()
	result, err := p.Search(context.Background(), c.Goal)
	require.NoError(t, err)
	require.True(t, result.Found())
	assert.Equal(t, []string{"drive", "arrive"}, result.Route.History)
	assert.Equal(t, 2.0, result.Route.State.Cost())
	assert.Equal(t, 2, result.Stats.RoutesFound)
}

func TestLoad_Missing(t *testing.T) {
	_, err := catalog.Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := catalog.Parse([]byte("name: x\nactions:\n  - name: a\n    effect: {}\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestDecode_FromMap(t *testing.T) {
	c, err := catalog.Decode(map[string]any{
		"name": "door",
		"goal": "enter",
		"actions": []any{
			map[string]any{"name": "open", "requires": map[string]any{"open": nil}, "effects": map[string]any{"open": true}},
			map[string]any{"name": "enter", "requires": map[string]any{"open": true}, "cost": 3},
		},
	})
	require.NoError(t, err)

	p := c.NewPlanner()
	route, found, err := p.FindImaginedRouteTo(context.Background(), "enter")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"open", "enter"}, route.History)
	assert.Equal(t, 4.0, route.State.Cost())
}

func TestCatalog_NoRoute(t *testing.T) {
	c := catalog.Catalog{Actions: []catalog.Spec{
		{Name: "fly", Requires: map[string]any{"wings": true}},
	}}
	require.NoError(t, c.Validate())

	p := c.NewPlanner()
	_, err := p.Run(context.Background(), "fly")
	assert.ErrorIs(t, err, domain.ErrNoRoute)
	assert.Empty(t, p.History())
}

func TestCatalog_MarshalRoundTrip(t *testing.T) {
	c, err := catalog.Load("testdata/shop.yaml")
	require.NoError(t, err)

	data, err := c.Marshal()
	require.NoError(t, err)

	again, err := catalog.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, c.Goal, again.Goal)
	assert.Len(t, again.Actions, len(c.Actions))
}

func TestFileLoader(t *testing.T) {
	c, err := catalog.FileLoader{Path: "testdata/travel.json"}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "travel", c.Name)
}
