package mcdata

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/mcdata/pkg/report"
)

// Runner writes the diagnostics of a workspace as a markdown report.
type Runner struct {
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the report before outputting it.
// This allows for terminal rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run writes the report and returns the number of diagnostics.
func (r *Runner) Run(w *Workspace) (int, error) {
	if r.Output == nil {
		return 0, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	entries := w.Diagnostics()

	output := Markdown(w, entries, !r.Headless)
	if r.Renderer != nil {
		if rendered, err := r.Renderer(output); err == nil {
			output = rendered
		}
	}
	if _, err := fmt.Fprintln(r.Output, strings.TrimSpace(output)); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Markdown formats entries grouped by file. The summary header lists the
// loaded roots when withHeader is set.
func Markdown(w *Workspace, entries []report.Entry, withHeader bool) string {
	var b strings.Builder
	if withHeader {
		b.WriteString("# mcdata lint\n\n")
		for _, root := range w.Roots() {
			fmt.Fprintf(&b, "- `%s` (%s, %d datapacks)\n", root.Path, root.Kind, len(root.Datapacks))
		}
		b.WriteString("\n")
	}
	if len(entries) == 0 {
		b.WriteString("No problems found.\n")
		return b.String()
	}

	current := ""
	for _, e := range entries {
		if e.File != current {
			current = e.File
			fmt.Fprintf(&b, "\n## %s\n\n", e.File)
		}
		fmt.Fprintf(&b, "- **%s** %s\n", e.Kind, e.Summary())
	}
	return b.String()
}
