package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the waypoint banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{` __      __                      _       _   `, "#34d399"},
		{` \ \    / /_ _ _  _ _ __  ___ (_)_ _ | |_ `, "#2dd4bf"},
		{`  \ \/\/ / _' | || | '_ \/ _ \| | ' \|  _|`, "#22d3ee"},
		{`   \_/\_/\__,_|\_, | .__/\___/|_|_||_|\__|`, "#38bdf8"},
		{`               |__/|_|                    `, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
