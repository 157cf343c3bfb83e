// Package logging sets up the structured logging this module uses for
// query-level diagnostics, following the log/slog usage shown throughout
// sudo-tiz/dns-tester-go's internal/resolver package (e.g. its
// "TLS certificate verification is DISABLED" slog.Warn call).
package logging

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// NewRun returns a logger that tags every record it emits with a fresh
// run_id, so that overlapping ResolverGroup.Lookup calls can be told apart
// in logs even when they share a base logger. If base is nil, slog.Default
// is used.
func NewRun(base *slog.Logger) (*slog.Logger, string) {
	if base == nil {
		base = slog.Default()
	}
	runID := uuid.NewString()
	return base.With(slog.String("run_id", runID)), runID
}

// Discard is a logger that drops everything, for callers that pass no
// *slog.Logger at all.
var Discard = slog.New(slog.NewTextHandler(io.Discard, nil))
