package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the tracer ASCII art banner and version to w.
func PrintBanner(w io.Writer, version string) {
	o := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _", "#34d399"},
		{" | |_ _ __ __ _  ___ ___ _ __", "#2dd4bf"},
		{" | __| '__/ _` |/ __/ _ \\ '__|", "#22d3ee"},
		{" | |_| | | (_| | (_|  __/ |", "#38bdf8"},
		{"  \\__|_|  \\__,_|\\___\\___|_|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, o.String(l.text).Foreground(o.Color(l.color)))
	}
	if version = strings.TrimSpace(version); version != "" {
		fmt.Fprintln(w, o.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
