package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Fetcher retrieves the raw table for one configured source.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) (Table, error)
}

const sheetHTTPTimeout = 30 * time.Second

// sheetHTTPClient is shared by every sheet export fetch. Exports of large
// tabs can take a while on a cold spreadsheet, hence the generous timeout.
var sheetHTTPClient = &http.Client{
	Timeout: sheetHTTPTimeout,
}

// SheetFetcher pulls one worksheet through the spreadsheet's CSV export
// endpoint. The spreadsheet must be shared by link; the per-source gid
// selects the tab.
type SheetFetcher struct {
	SpreadsheetID string
	BaseURL       string       // test override; empty means docs.google.com
	Client        *http.Client // nil means the shared sheet client
}

func (f *SheetFetcher) Fetch(ctx context.Context, src Source) (Table, error) {
	base := f.BaseURL
	if base == "" {
		base = "https://docs.google.com"
	}
	exportURL := fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv&gid=%s",
		base, f.SpreadsheetID, src.GID)

	req, err := http.NewRequestWithContext(ctx, "GET", exportURL, nil)
	if err != nil {
		return Table{}, fmt.Errorf("creating request: %w", err)
	}
	client := f.Client
	if client == nil {
		client = sheetHTTPClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Table{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Table{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != 200 {
		head := string(body)
		if len(head) > 200 {
			head = head[:200]
		}
		return Table{}, fmt.Errorf("sheet export returned %d: %s", resp.StatusCode, head)
	}
	return decodeCSVTable(body)
}

// DirFetcher reads <name>.csv files from a local directory. Used for offline
// runs and fixtures.
type DirFetcher struct {
	Dir string
}

func (f *DirFetcher) Fetch(ctx context.Context, src Source) (Table, error) {
	data, err := os.ReadFile(filepath.Join(f.Dir, src.Name+".csv"))
	if err != nil {
		return Table{}, fmt.Errorf("reading source file: %w", err)
	}
	return decodeCSVTable(data)
}

// sourceColumn is the synthetic header carrying each row's origin sheet.
// A literal column of the same name in a sheet is overwritten by the tag.
const sourceColumn = "Source"

// loadAll fetches every configured source through the cache, tags each row
// with its source name and merges the rows under the union of all headers in
// first-seen order. Individual failures are collected rather than fatal: the
// load only aborts when no source fetched at all, or when the sources that
// did fetch contributed zero rows between them.
func loadAll(ctx context.Context, fetcher Fetcher, cache SnapshotCache, sources []Source) (Table, []SourceError, error) {
	var merged Table
	seen := make(map[string]bool)
	var srcErrs []SourceError
	succeeded := 0

	for _, src := range sources {
		table, cached := cache.Get(src.Name)
		if cached {
			log.Printf("load source=%s rows=%d cached=true", src.Name, len(table.Rows))
		} else {
			var err error
			table, err = fetcher.Fetch(ctx, src)
			if err != nil {
				log.Printf("load source=%s error: %v", src.Name, err)
				srcErrs = append(srcErrs, SourceError{Source: src.Name, Err: err})
				continue
			}
			cache.Put(src.Name, table, time.Now())
			log.Printf("load source=%s rows=%d", src.Name, len(table.Rows))
		}
		succeeded++

		for _, h := range table.Headers {
			if !seen[h] {
				seen[h] = true
				merged.Headers = append(merged.Headers, h)
			}
		}
		for _, row := range table.Rows {
			tagged := make(Row, len(row)+1)
			for k, v := range row {
				tagged[k] = v
			}
			tagged[sourceColumn] = src.Name
			merged.Rows = append(merged.Rows, tagged)
		}
	}

	if succeeded == 0 {
		return Table{}, srcErrs, &AllSourcesFailedError{Errors: srcErrs}
	}
	if len(merged.Rows) == 0 {
		return Table{}, srcErrs, ErrEmptyResult
	}

	if !seen[sourceColumn] {
		merged.Headers = append(merged.Headers, sourceColumn)
	}
	return merged, srcErrs, nil
}
