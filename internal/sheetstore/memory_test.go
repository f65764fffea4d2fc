package sheetstore

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
)

func TestMemoryRowsReturnsCopies(t *testing.T) {
	m := NewMemory()
	m.Seed("t", [][]string{{"a", "b"}})

	rows, err := m.Rows(context.Background(), "t")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	rows[0][0] = "mutated"

	again, _ := m.Rows(context.Background(), "t")
	if again[0][0] != "a" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestMemoryUpdateCell(t *testing.T) {
	m := NewMemory()
	m.Seed("t", [][]string{
		{"h1", "h2"},
		{"x", "y"},
	})
	ctx := context.Background()

	if err := m.UpdateCell(ctx, "t", 2, 1, "z"); err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	rows, _ := m.Rows(ctx, "t")
	if rows[1][1] != "z" {
		t.Errorf("cell = %q", rows[1][1])
	}

	// Writing past the row's current width pads it out.
	if err := m.UpdateCell(ctx, "t", 2, 4, "wide"); err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	rows, _ = m.Rows(ctx, "t")
	if rows[1][4] != "wide" {
		t.Errorf("padded cell = %q", rows[1][4])
	}

	if err := m.UpdateCell(ctx, "t", 99, 0, "x"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("out-of-range update: err = %v, want ErrNotFound", err)
	}
}
