package catalog

import (
	"fmt"
	"sort"
)

// Facts is the planning state of a catalog world.
type Facts struct {
	Values  map[string]any `json:"values"`
	Applied []string       `json:"applied"`
	Spent   float64        `json:"spent"`
}

// NewFacts copies the given values into a fresh state.
func NewFacts(values map[string]any) *Facts {
	f := &Facts{
		Values:  make(map[string]any, len(values)),
		Applied: []string{},
	}
	for k, v := range values {
		f.Set(k, v)
	}
	return f
}

// Clone copies the fact map and the applied log. Fact values are scalars and
// are shared by value.
func (f *Facts) Clone() *Facts {
	c := &Facts{
		Values:  make(map[string]any, len(f.Values)),
		Applied: make([]string, len(f.Applied)),
		Spent:   f.Spent,
	}
	for k, v := range f.Values {
		c.Values[k] = v
	}
	copy(c.Applied, f.Applied)
	return c
}

// Cost is the sum of the costs of the actions applied so far.
func (f *Facts) Cost() float64 {
	return f.Spent
}

// Get returns a fact and whether it is set.
func (f *Facts) Get(name string) (any, bool) {
	v, ok := f.Values[name]
	return v, ok
}

// Set stores a fact; a nil value removes it.
func (f *Facts) Set(name string, value any) {
	if f.Values == nil {
		f.Values = make(map[string]any)
	}
	if value == nil {
		delete(f.Values, name)
		return
	}
	f.Values[name] = Normalize(value)
}

// Satisfies reports whether every requirement holds.
func (f *Facts) Satisfies(requires map[string]any) bool {
	for name, want := range requires {
		got, ok := f.Values[name]
		if want == nil {
			if ok {
				return false
			}
			continue
		}
		if !ok || !sameValue(got, Normalize(want)) {
			return false
		}
	}
	return true
}

// Keys returns the fact names in sorted order.
func (f *Facts) Keys() []string {
	keys := make([]string, 0, len(f.Values))
	for k := range f.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize folds numeric types into float64 so that YAML ints and JSON floats
// compare equal.
func Normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

func sameValue(a, b any) bool {
	if checkScalar(a) != nil || checkScalar(b) != nil {
		return false
	}
	return a == b
}

func checkScalar(v any) error {
	switch Normalize(v).(type) {
	case nil, string, bool, float64:
		return nil
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
}
