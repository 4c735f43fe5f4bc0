package ports

import (
	"context"

	"github.com/aretw0/mcdata/pkg/report"
)

// DiagnosticStore persists diagnostics reported during collection and
// resolution. Reporter methods cannot fail; implementations backed by a
// network log their errors instead.
type DiagnosticStore interface {
	report.Reporter

	// List returns every stored diagnostic ordered by file then kind.
	List(ctx context.Context) ([]report.Entry, error)

	// Reset removes every stored diagnostic.
	Reset(ctx context.Context) error
}
