// Package sheetstore wraps the Google Sheets API as a plain row store: whole
// sheets in, appended rows and single-cell updates out. It is the only
// package that talks to the remote service.
package sheetstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "github.com/jaiminshah2023/Work-Allocation-Tool/common/errors"
)

// readRange covers every populated cell of the first sheet. The row store
// never addresses named ranges; each logical table is simply sheet one of its
// spreadsheet.
const readRange = "A:ZZ"

// Config holds the client settings
type Config struct {
	Credentials   []byte        // service account key JSON
	CacheTTL      time.Duration // read-cache window, 0 disables caching
	CallInterval  time.Duration // minimum spacing between remote calls
	AppendRetries int           // attempts for quota-limited appends
	Cache         Cache         // nil falls back to an in-memory cache
}

// Client is the remote row-store client. Every method is one network round
// trip (plus cache bookkeeping); there is no local state beyond the cache.
type Client struct {
	svc     *sheets.Service
	cache   Cache
	ttl     time.Duration
	pacer   *pacer
	retries int
	backoff time.Duration // base unit for quota backoff, one second in production
}

// New creates a Sheets row-store client from service account credentials
func New(ctx context.Context, cfg Config) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(cfg.Credentials),
		option.WithScopes(sheets.SpreadsheetsScope, sheets.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache()
	}
	retries := cfg.AppendRetries
	if retries <= 0 {
		retries = 5
	}

	return &Client{
		svc:     svc,
		cache:   cache,
		ttl:     cfg.CacheTTL,
		pacer:   newPacer(cfg.CallInterval),
		retries: retries,
		backoff: time.Second,
	}, nil
}

// Rows fetches every row of the given table, header included. An empty sheet
// yields an empty slice.
func (c *Client) Rows(ctx context.Context, table string) ([][]string, error) {
	if c.ttl > 0 {
		if data, ok := c.cache.Get(ctx, table); ok {
			var rows [][]string
			if err := json.Unmarshal(data, &rows); err == nil {
				return rows, nil
			}
		}
	}

	if err := c.pacer.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.svc.Spreadsheets.Values.Get(table, readRange).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.RemoteUnavailable(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}

	if c.ttl > 0 {
		if data, err := json.Marshal(rows); err == nil {
			c.cache.Set(ctx, table, data, c.ttl)
		}
	}

	return rows, nil
}

// AppendRow writes a single row at the end of the table
func (c *Client) AppendRow(ctx context.Context, table string, row []string) error {
	return c.AppendRows(ctx, table, [][]string{row})
}

// AppendRows writes rows at the end of the table in one API call. Quota
// rejections (HTTP 429) are retried with exponential backoff; any other
// failure surfaces immediately.
func (c *Client) AppendRows(ctx context.Context, table string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	vr := &sheets.ValueRange{Values: toValues(rows)}

	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if err := c.pacer.wait(ctx); err != nil {
			return err
		}

		_, err := c.svc.Spreadsheets.Values.Append(table, "A1", vr).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		if err == nil {
			c.cache.Delete(ctx, table)
			return nil
		}

		lastErr = err
		if !isQuotaError(err) {
			return apperrors.RemoteUnavailable(err)
		}

		backoff := time.Duration(1<<uint(attempt+1))*c.backoff +
			time.Duration(rand.Int63n(int64(c.backoff)))
		log.Warn().
			Str("table", table).
			Int("attempt", attempt+1).
			Dur("backoff", backoff).
			Msg("sheets append hit quota, backing off")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return apperrors.RemoteUnavailable(fmt.Errorf("append exhausted %d retries: %w", c.retries, lastErr))
}

// UpdateCell writes a single cell. rowIdx is the 1-based sheet row (header is
// row 1), colIdx the 0-based column. Single-cell writes are the one atomic
// operation the remote store offers.
func (c *Client) UpdateCell(ctx context.Context, table string, rowIdx, colIdx int, value string) error {
	if err := c.pacer.wait(ctx); err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	cell := fmt.Sprintf("%s%d", columnName(colIdx), rowIdx)

	_, err := c.svc.Spreadsheets.Values.Update(table, cell, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return apperrors.RemoteUnavailable(err)
	}

	c.cache.Delete(ctx, table)
	return nil
}

func toValues(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		vals := make([]interface{}, len(row))
		for j, cell := range row {
			vals[j] = cell
		}
		out[i] = vals
	}
	return out
}

func isQuotaError(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code == http.StatusTooManyRequests
	}
	return false
}

// columnName converts a 0-based column index to its A1 letter form
func columnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}
