// Package repository maps sheet rows to typed records. It is the only place
// that knows each table's column layout; a reordered column in a backing
// sheet only ever requires a change here.
package repository

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
	"github.com/jaiminshah2023/Work-Allocation-Tool/common/models"
)

// RowStore is the raw row access the repositories are built on. Implemented
// by sheetstore.Client and sheetstore.Memory.
type RowStore interface {
	Rows(ctx context.Context, table string) ([][]string, error)
	AppendRow(ctx context.Context, table string, row []string) error
	AppendRows(ctx context.Context, table string, rows [][]string) error
	UpdateCell(ctx context.Context, table string, rowIdx, colIdx int, value string) error
}

// Tables names the three spreadsheets backing the system
type Tables struct {
	Users    string
	Projects string
	Tasks    string
}

// normalizeHeader canonicalizes a header cell: the deployed sheets have
// drifted between "task_name", "Task Name" and friends over time, and all of
// them must keep resolving to the same field.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

// buildColumnMap maps canonical field names to 0-based column indexes from a
// live header row. aliases translate legacy header spellings.
func buildColumnMap(header []string, aliases map[string]string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeHeader(h)
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		if _, taken := cols[name]; !taken {
			cols[name] = i
		}
	}
	return cols
}

// requireColumns fails with a schema mismatch naming the first absent field
func requireColumns(cols map[string]int, fields ...string) error {
	for _, f := range fields {
		if _, ok := cols[f]; !ok {
			return apperrors.SchemaMismatch("missing column " + f)
		}
	}
	return nil
}

// cell reads a column from a row, tolerating rows shorter than the header
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDate reads a date cell. Unparseable or empty cells coerce to nil; the
// store accepts arbitrary strings and old rows carry plenty of them.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nat") {
		return nil
	}
	t, err := time.Parse(models.DateFormat, s)
	if err != nil {
		return nil
	}
	return &t
}

// formatDate writes a date cell, empty for nil
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateFormat)
}
