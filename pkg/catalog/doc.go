// Package catalog describes planning worlds as data instead of Go code.
//
// A Catalog is a set of named facts (the initial state) and a list of action
// specs, each with the facts it requires and the facts it sets. Catalogs are
// read from YAML or JSON files, or decoded from generic maps, and turned into a
// planner over *Facts.
//
// Requirement semantics:
//
//   - a nil value requires the fact to be absent;
//   - any other value requires the fact to equal it, with numbers compared as float64.
//
// An effect with a nil value removes the fact.
package catalog
