// Package validator checks catalogs for actions that can never run.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/waypoint/pkg/catalog"
)

// absent stands for "fact not set" in a value set.
type absent struct{}

// Report is the result of a reachability crawl.
type Report struct {
	// Reachable lists, in catalog order, the actions whose requirements can
	// all hold at once in some reachable state or a relaxation of it.
	Reachable []string
	// Dead lists the actions that can never become applicable.
	Dead []string
	// GoalReachable is false when the catalog goal is dead.
	GoalReachable bool
}

// Crawl computes which actions can ever become applicable. Starting from the
// initial facts, it tracks every value each fact may take and never removes
// one, so an action reported dead is dead in every run; an action reported
// reachable may still be unreachable when its requirements conflict in
// practice.
func Crawl(c *catalog.Catalog) Report {
	values := make(map[string]map[any]bool)
	add := func(name string, v any) bool {
		set, ok := values[name]
		if !ok {
			set = make(map[any]bool)
			values[name] = set
		}
		key := v
		if v == nil {
			key = absent{}
		} else {
			key = catalog.Normalize(v)
		}
		if set[key] {
			return false
		}
		set[key] = true
		return true
	}

	initial := c.InitialFacts()
	for name, v := range initial.Values {
		add(name, v)
	}
	// Any fact not set initially starts absent.
	for _, spec := range c.Actions {
		for _, m := range []map[string]any{spec.Requires, spec.Effects} {
			for name := range m {
				if _, ok := initial.Values[name]; !ok {
					add(name, nil)
				}
			}
		}
	}

	possible := func(spec catalog.Spec) bool {
		for name, want := range spec.Requires {
			key := any(absent{})
			if want != nil {
				key = catalog.Normalize(want)
			}
			if !values[name][key] {
				return false
			}
		}
		return true
	}

	reached := make(map[string]bool, len(c.Actions))
	for changed := true; changed; {
		changed = false
		for _, spec := range c.Actions {
			if reached[spec.Name] || !possible(spec) {
				continue
			}
			reached[spec.Name] = true
			changed = true
			for name, v := range spec.Effects {
				add(name, v)
			}
		}
	}

	report := Report{GoalReachable: c.Goal == "" || reached[c.Goal]}
	for _, spec := range c.Actions {
		if reached[spec.Name] {
			report.Reachable = append(report.Reachable, spec.Name)
		} else {
			report.Dead = append(report.Dead, spec.Name)
		}
	}
	return report
}

// ValidateCatalog checks the catalog structure and reports dead actions and an
// unreachable goal.
func ValidateCatalog(c *catalog.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}

	report := Crawl(c)
	var errors []string
	if !report.GoalReachable {
		errors = append(errors, fmt.Sprintf("Goal '%s' can never become applicable", c.Goal))
	}
	for _, name := range report.Dead {
		if name == c.Goal {
			continue
		}
		spec, _ := c.Spec(name)
		errors = append(errors, fmt.Sprintf("Action '%s' can never become applicable (requires %s)", name, describe(spec.Requires)))
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}

func describe(requires map[string]any) string {
	parts := make([]string, 0, len(requires))
	for name, v := range requires {
		if v == nil {
			parts = append(parts, name+" unset")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", name, v))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
