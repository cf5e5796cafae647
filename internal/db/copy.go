package db

import (
	"github.com/jackc/pgx/v5"
)

// SliceSource implements pgx.CopyFromSource over a pre-built slice of
// COPY value rows. The curated and quarantine sets are in memory by the
// time they are loaded, so a slice source is simpler than a channel here;
// values must already be ordered to match the target column list.
type SliceSource struct {
	rows [][]any
	idx  int
}

// NewSliceSource creates a CopyFromSource over the given rows.
func NewSliceSource(rows [][]any) *SliceSource {
	return &SliceSource{rows: rows, idx: -1}
}

// Next advances to the next row.
func (s *SliceSource) Next() bool {
	s.idx++
	return s.idx < len(s.rows)
}

// Values returns the current row's values in COPY column order.
func (s *SliceSource) Values() ([]any, error) {
	return s.rows[s.idx], nil
}

// Err returns any error encountered during iteration.
func (s *SliceSource) Err() error { return nil }

// Compile-time check that SliceSource satisfies the interface.
var _ pgx.CopyFromSource = (*SliceSource)(nil)
