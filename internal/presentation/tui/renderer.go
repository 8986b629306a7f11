// Package tui formats plans for terminals.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour with a
// style matched to the terminal background. If glamour cannot be initialised
// the markdown is returned unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether the file is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RouteView is the data shown for a planned route.
type RouteView struct {
	Goal      string
	Route     []string
	Cost      float64
	Nodes     int
	Routes    int
	Committed []string
	Possibles []string
}

// RouteMarkdown lays a route out as markdown: committed actions are checked,
// the next action is bold.
func RouteMarkdown(v RouteView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Route to `%s`\n\n", v.Goal)

	if len(v.Committed) > 0 {
		sb.WriteString("## Done\n\n")
		for _, name := range v.Committed {
			fmt.Fprintf(&sb, "- [x] %s\n", name)
		}
		sb.WriteString("\n")
	}

	if len(v.Route) == 0 {
		sb.WriteString("_No route._\n")
	} else {
		sb.WriteString("## Plan\n\n")
		for i, name := range v.Route {
			if i == 0 {
				fmt.Fprintf(&sb, "1. **%s**\n", name)
				continue
			}
			fmt.Fprintf(&sb, "1. %s\n", name)
		}
		fmt.Fprintf(&sb, "\nCost **%g**, %d routes compared over %d states.\n", v.Cost, v.Routes, v.Nodes)
	}

	if len(v.Possibles) > 0 {
		sb.WriteString("\n## Possible now\n\n")
		for _, name := range v.Possibles {
			fmt.Fprintf(&sb, "- %s\n", name)
		}
	}
	return sb.String()
}
