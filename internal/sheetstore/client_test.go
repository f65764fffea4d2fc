package sheetstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
)

// fakeSheets serves the handful of Sheets API calls the client makes: value
// reads, appends and single-cell updates.
type fakeSheets struct {
	mu          sync.Mutex
	reads       int
	writes      int
	quotaFails  int // respond 429 to this many writes before succeeding
	serverFails bool
	values      [][]interface{}
}

func (f *fakeSheets) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodGet {
			f.reads++
			if f.serverFails {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
				return
			}
			json.NewEncoder(w).Encode(sheets.ValueRange{Values: f.values})
			return
		}

		// Appends and updates both count as writes.
		f.writes++
		if f.quotaFails > 0 {
			f.quotaFails--
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
			return
		}
		if f.serverFails {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
			return
		}
		w.Write([]byte(`{}`))
	})
}

func newTestClient(t *testing.T, fake *fakeSheets, ttl time.Duration) (*Client, *httptest.Server) {
	t.Helper()

	ts := httptest.NewServer(fake.handler())
	t.Cleanup(ts.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithEndpoint(ts.URL),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	return &Client{
		svc:     svc,
		cache:   NewMemoryCache(),
		ttl:     ttl,
		pacer:   newPacer(0),
		retries: 3,
		backoff: time.Millisecond,
	}, ts
}

func TestClientRowsCacheHitSkipsRemote(t *testing.T) {
	fake := &fakeSheets{values: [][]interface{}{{"email", "name"}, {"a@x.org", "A"}}}
	client, _ := newTestClient(t, fake, time.Minute)
	ctx := context.Background()

	first, err := client.Rows(ctx, "sheet1")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	second, err := client.Rows(ctx, "sheet1")
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}

	if fake.reads != 1 {
		t.Errorf("remote reads = %d, want 1 (second call served from cache)", fake.reads)
	}
	if len(first) != 2 || len(second) != 2 || second[1][0] != "a@x.org" {
		t.Errorf("cached rows differ: %v vs %v", first, second)
	}
}

func TestClientAppendInvalidatesCache(t *testing.T) {
	fake := &fakeSheets{values: [][]interface{}{{"h"}}}
	client, _ := newTestClient(t, fake, time.Minute)
	ctx := context.Background()

	if _, err := client.Rows(ctx, "sheet1"); err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if err := client.AppendRow(ctx, "sheet1", []string{"x"}); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}
	if _, err := client.Rows(ctx, "sheet1"); err != nil {
		t.Fatalf("Rows: %v", err)
	}

	if fake.reads != 2 {
		t.Errorf("remote reads = %d, want 2 (append must drop the cache entry)", fake.reads)
	}
}

func TestClientUpdateCellInvalidatesCache(t *testing.T) {
	fake := &fakeSheets{values: [][]interface{}{{"h"}, {"old"}}}
	client, _ := newTestClient(t, fake, time.Minute)
	ctx := context.Background()

	if _, err := client.Rows(ctx, "sheet1"); err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if err := client.UpdateCell(ctx, "sheet1", 2, 0, "new"); err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	if _, err := client.Rows(ctx, "sheet1"); err != nil {
		t.Fatalf("Rows: %v", err)
	}

	if fake.reads != 2 {
		t.Errorf("remote reads = %d, want 2 (update must drop the cache entry)", fake.reads)
	}
}

func TestClientAppendRetriesQuotaErrors(t *testing.T) {
	fake := &fakeSheets{quotaFails: 2}
	client, _ := newTestClient(t, fake, 0)

	if err := client.AppendRow(context.Background(), "sheet1", []string{"x"}); err != nil {
		t.Fatalf("AppendRow after quota retries: %v", err)
	}
	if fake.writes != 3 {
		t.Errorf("writes = %d, want 3 (two 429s then success)", fake.writes)
	}
}

func TestClientAppendExhaustsRetries(t *testing.T) {
	fake := &fakeSheets{quotaFails: 10}
	client, _ := newTestClient(t, fake, 0)

	err := client.AppendRow(context.Background(), "sheet1", []string{"x"})
	if !errors.Is(err, apperrors.ErrRemoteUnavailable) {
		t.Fatalf("err = %v, want ErrRemoteUnavailable", err)
	}
	if fake.writes != 3 {
		t.Errorf("writes = %d, want the configured 3 attempts", fake.writes)
	}
}

func TestClientAppendNonQuotaErrorFailsFast(t *testing.T) {
	fake := &fakeSheets{serverFails: true}
	client, _ := newTestClient(t, fake, 0)

	err := client.AppendRow(context.Background(), "sheet1", []string{"x"})
	if !errors.Is(err, apperrors.ErrRemoteUnavailable) {
		t.Fatalf("err = %v, want ErrRemoteUnavailable", err)
	}
	// A 500 is not a quota rejection; no second attempt.
	if fake.writes != 1 {
		t.Errorf("writes = %d, want 1", fake.writes)
	}
}

func TestClientRowsRemoteFailure(t *testing.T) {
	fake := &fakeSheets{serverFails: true}
	client, _ := newTestClient(t, fake, time.Minute)

	_, err := client.Rows(context.Background(), "sheet1")
	if !errors.Is(err, apperrors.ErrRemoteUnavailable) {
		t.Fatalf("err = %v, want ErrRemoteUnavailable", err)
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
	}
	for _, tt := range tests {
		if got := columnName(tt.col); got != tt.want {
			t.Errorf("columnName(%d) = %q, want %q", tt.col, got, tt.want)
		}
	}
	if !strings.HasPrefix(columnName(701), "Z") {
		t.Errorf("columnName(701) = %q, want ZZ", columnName(701))
	}
}
