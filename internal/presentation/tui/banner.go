package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the mcdata ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Grass to dirt, top to bottom
	lines := []struct {
		text  string
		color string
	}{
		{"                      _       _", "#4ade80"},
		{"  _ __ ___   ___ __| | __ _| |_ __ _", "#22c55e"},
		{" | '_ ` _ \\ / __/ _` |/ _` | __/ _` |", "#16a34a"},
		{" | | | | | | (_| (_| | (_| | || (_| |", "#a16207"},
		{" |_| |_| |_|\\___\\__,_|\\__,_|\\__\\__,_|", "#854d0e"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Severity colors a diagnostic kind name for terminal output.
func Severity(kind string) string {
	p := termenv.ColorProfile()
	color := "#f87171"
	switch kind {
	case "WRONG_EXTENSION", "LOOPING_TAG":
		color = "#facc15"
	}
	return termenv.String(kind).Foreground(p.Color(color)).Bold().String()
}
