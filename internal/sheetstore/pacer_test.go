package sheetstore

import (
	"context"
	"testing"
	"time"
)

func TestPacerSpacesCalls(t *testing.T) {
	p := newPacer(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := p.wait(ctx); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	// Three calls need at least two full intervals between them.
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("three calls completed in %v, want >= 100ms", elapsed)
	}
}

func TestPacerZeroIntervalNeverBlocks(t *testing.T) {
	p := newPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := p.wait(ctx); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("unpaced calls took %v", elapsed)
	}
}

func TestPacerHonoursCancellation(t *testing.T) {
	p := newPacer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	if err := p.wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- p.wait(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected context error")
		}
	case <-time.After(time.Second):
		t.Fatal("wait did not return after cancel")
	}
}
