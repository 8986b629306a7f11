// Package graph renders catalogs and routes as Mermaid flowcharts.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/waypoint/pkg/catalog"
)

// Overlay marks progress on a graph.
type Overlay struct {
	Committed []string
	Next      string
}

// CatalogMermaid draws every action and an edge A --> B labelled with each fact
// that A sets to a value B requires. The goal is drawn as a subroutine.
func CatalogMermaid(c *catalog.Catalog, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, spec := range c.Actions {
		opener, closer := "[", "]"
		if spec.Name == c.Goal {
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(spec.Name), opener, spec.Name, closer)
	}

	for _, from := range c.Actions {
		for _, to := range c.Actions {
			if from.Name == to.Name {
				continue
			}
			facts := enables(from, to)
			if len(facts) == 0 {
				continue
			}
			label := strings.ReplaceAll(strings.Join(facts, ", "), "\"", "'")
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", sanitizeMermaidID(from.Name), label, sanitizeMermaidID(to.Name))
		}
	}

	writeOverlay(&sb, overlay)
	return sb.String()
}

// RouteMermaid draws a route as a chain from a start node. The first
// committed actions are styled as done and the following one as next.
func RouteMermaid(route []string, committed int) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString("    start((\"start\"))\n")

	prev := "start"
	for i, name := range route {
		id := fmt.Sprintf("s%d_%s", i+1, sanitizeMermaidID(name))
		fmt.Fprintf(&sb, "    %s[\"%d. %s\"]\n", id, i+1, name)
		fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)
		prev = id
	}

	if committed < 0 {
		committed = 0
	}
	if committed > len(route) {
		committed = len(route)
	}
	overlay := &Overlay{}
	for i := 0; i < committed; i++ {
		overlay.Committed = append(overlay.Committed, fmt.Sprintf("s%d_%s", i+1, route[i]))
	}
	if committed < len(route) {
		overlay.Next = fmt.Sprintf("s%d_%s", committed+1, route[committed])
	}
	writeOverlay(&sb, overlay)

	return sb.String()
}

func writeOverlay(sb *strings.Builder, overlay *Overlay) {
	if overlay == nil || (len(overlay.Committed) == 0 && overlay.Next == "") {
		return
	}
	sb.WriteString("\n    %% Overlay Styles\n")
	// Black text keeps contrast on light fills in both themes.
	sb.WriteString("    classDef done fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef next fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

	seen := make(map[string]bool)
	for _, id := range overlay.Committed {
		safeID := sanitizeMermaidID(id)
		if safeID == "" || seen[safeID] {
			continue
		}
		seen[safeID] = true
		fmt.Fprintf(sb, "    class %s done;\n", safeID)
	}
	if overlay.Next != "" {
		fmt.Fprintf(sb, "    class %s next;\n", sanitizeMermaidID(overlay.Next))
	}
}

// enables lists the facts that from sets to exactly the value to requires.
func enables(from, to catalog.Spec) []string {
	var facts []string
	for name, want := range to.Requires {
		got, ok := from.Effects[name]
		if !ok {
			continue
		}
		probe := catalog.NewFacts(nil)
		probe.Set(name, got)
		if probe.Satisfies(map[string]any{name: want}) {
			facts = append(facts, name)
		}
	}
	sort.Strings(facts)
	return facts
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
