package sheetstore

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
)

// Memory is an in-process row store with the same surface as Client. It backs
// development runs without sheet credentials and the test suites.
type Memory struct {
	mu     sync.Mutex
	tables map[string][][]string
}

// NewMemory creates an empty in-memory row store
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][][]string)}
}

// Seed replaces a table's contents, header row included
func (m *Memory) Seed(table string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	m.tables[table] = cp
}

// Rows returns a copy of every row of the table
func (m *Memory) Rows(_ context.Context, table string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.tables[table]
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	return cp, nil
}

// AppendRow writes a single row at the end of the table
func (m *Memory) AppendRow(ctx context.Context, table string, row []string) error {
	return m.AppendRows(ctx, table, [][]string{row})
}

// AppendRows writes rows at the end of the table
func (m *Memory) AppendRows(_ context.Context, table string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.tables[table] = append(m.tables[table], append([]string(nil), r...))
	}
	return nil
}

// UpdateCell writes a single cell. rowIdx is 1-based, colIdx 0-based,
// matching the remote client.
func (m *Memory) UpdateCell(_ context.Context, table string, rowIdx, colIdx int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	if rowIdx < 1 || rowIdx > len(rows) {
		return apperrors.NotFound(fmt.Sprintf("row %d in %s", rowIdx, table))
	}

	row := rows[rowIdx-1]
	for len(row) <= colIdx {
		row = append(row, "")
	}
	row[colIdx] = value
	rows[rowIdx-1] = row
	return nil
}

// RowCount reports the number of rows in a table, header included
func (m *Memory) RowCount(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables[table])
}
