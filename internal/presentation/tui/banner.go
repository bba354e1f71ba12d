package tui

import (
	"fmt"
	"io"
	"strings"
)

// PrintBanner writes the ASCII art banner for bubblefx.
func PrintBanner(w io.Writer, version string) {
	out := NewOutput(w)
	// Cyan to violet, like light on a soap film
	lines := []struct{ text, color string }{
		{"  _       _    _    _      __     ", "#22d3ee"},
		{" | |__ _  _| |__| |__| |___ / _|_ __", "#38bdf8"},
		{" | '_ \\ || | '_ \\ '_ \\ / -_)  _\\ \\ /", "#818cf8"},
		{" |_.__/\\_,_|_.__/_.__/_\\___|_| /_\\_\\", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
