// Package repository stores analysis reports.
package repository

import (
	"context"

	"github.com/okian/chessdna/internal/domain/types"
)

// ReportStore provides read/write access to analysis reports keyed by
// subject.
type ReportStore interface {
	// Save stores r, replacing any earlier report for the same subject.
	Save(ctx context.Context, r types.Report) error

	// Get returns the latest report for subject or ErrNotFound.
	Get(ctx context.Context, subject string) (types.Report, error)

	// List returns up to limit reports, most recently saved first.
	List(ctx context.Context, limit int) ([]types.Report, error)

	// Count returns the number of stored reports.
	Count(ctx context.Context) int
}
