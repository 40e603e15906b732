package main

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResult means at least one source fetched fine but the merged table
// has zero rows. Distinct from AllSourcesFailedError.
var ErrEmptyResult = errors.New("no rows in any source sheet: check that the sheets contain data below the header row")

// ErrNoUsableDates means every row failed timestamp parsing under both date
// orders. The date column most likely resolved to the wrong header.
var ErrNoUsableDates = errors.New("no parseable dates in any row: check the date column format")

// MissingColumnError reports a required logical field that matched no sheet
// header.
type MissingColumnError struct {
	Field      string
	Candidates []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found (tried: %s): check the sheet headers",
		e.Field, strings.Join(e.Candidates, ", "))
}

// SourceError is a non-fatal fetch failure for one source. The load carries
// on with the remaining sources and surfaces these next to the output.
type SourceError struct {
	Source string
	Err    error
}

func (e SourceError) Error() string { return fmt.Sprintf("%s: %v", e.Source, e.Err) }

func (e SourceError) Unwrap() error { return e.Err }

// AllSourcesFailedError means every configured source failed to fetch, so
// there is nothing to report on.
type AllSourcesFailedError struct {
	Errors []SourceError
}

func (e *AllSourcesFailedError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, se := range e.Errors {
		parts[i] = se.Error()
	}
	return fmt.Sprintf("could not load any of %d sources: %s (check link sharing and the gid values)",
		len(e.Errors), strings.Join(parts, "; "))
}
