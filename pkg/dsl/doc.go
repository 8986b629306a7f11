/*
Package dsl provides a fluent Go builder for waypoint catalogs.

It lets catalogs be declared in code, with IDE completion and type checking,
instead of YAML files or markdown documents. Actions keep the order in which
they are first added, which is the order the planner tries them in.

Example usage:

	package main

	import (
		"github.com/aretw0/waypoint/pkg/dsl"
	)

	func main() {
		b := dsl.New("door").
			Goal("enter").
			Initial("locked", true)

		b.Add("enter").
			Requires("open", true)

		b.Add("unlock").
			Requires("locked", true).
			Sets("locked", false)

		b.Add("open").
			Requires("locked", false).
			Unset("open").
			Sets("open", true).
			Cost(2)

		// The loader can be served like any other catalog source.
		loader, err := b.Build()
		// ...
	}
*/
package dsl
