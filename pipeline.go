package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Pipeline bundles everything one load cycle needs: the fetcher, the
// snapshot cache, the configured sources and the two rulesets.
type Pipeline struct {
	Fetcher    Fetcher
	Cache      SnapshotCache
	Sources    []Source
	ThemeRules Ruleset
	PlantRules Ruleset
	Location   *time.Location
	Warnings   []string

	snapshotDB *SnapshotDB
}

// NewPipeline wires the fetcher, cache and rulesets from config. Broken rule
// files degrade to the built-in rules with a warning instead of failing, so a
// bad config edit never takes reporting down.
func NewPipeline(cfg Config) (Pipeline, error) {
	p := Pipeline{
		Sources:  cfg.Sources,
		Location: cfg.Location,
	}

	if cfg.SourceDir != "" {
		p.Fetcher = &DirFetcher{Dir: cfg.SourceDir}
	} else {
		p.Fetcher = &SheetFetcher{SpreadsheetID: cfg.SpreadsheetID}
	}

	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	if cfg.CachePath != "" {
		sdb, err := OpenSnapshotDB(cfg.CachePath, ttl)
		if err != nil {
			return Pipeline{}, fmt.Errorf("opening snapshot cache: %w", err)
		}
		p.Cache = sdb
		p.snapshotDB = sdb
	} else {
		p.Cache = NewMemoryCache(ttl)
	}

	p.ThemeRules = defaultThemeRules()
	if cfg.ThemeRulesPath != "" {
		rs, warning := LoadRules(cfg.ThemeRulesPath, p.ThemeRules)
		p.ThemeRules = rs
		if warning != "" {
			log.Printf("rules warning: %s", warning)
			p.Warnings = append(p.Warnings, warning)
		}
	}
	p.PlantRules = defaultPlantRules()
	if cfg.PlantRulesPath != "" {
		rs, warning := LoadRules(cfg.PlantRulesPath, p.PlantRules)
		p.PlantRules = rs
		if warning != "" {
			log.Printf("rules warning: %s", warning)
			p.Warnings = append(p.Warnings, warning)
		}
	}

	return p, nil
}

// Close releases the persistent cache if one is open.
func (p Pipeline) Close() {
	if p.snapshotDB != nil {
		p.snapshotDB.Close()
	}
}

// Load runs one full cycle: fetch and merge the sources, resolve columns on
// the merged header set, pick the date order, then build classified tickets
// with their derived reporting keys. The returned dataset is the immutable
// input for every aggregation.
func (p Pipeline) Load(ctx context.Context) (*Dataset, error) {
	runID := uuid.NewString()
	started := time.Now()

	merged, srcErrs, err := loadAll(ctx, p.Fetcher, p.Cache, p.Sources)
	if err != nil {
		return nil, err
	}

	cols, err := resolveColumns(merged.Headers)
	if err != nil {
		return nil, err
	}

	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	texts := make([]string, len(merged.Rows))
	for i, row := range merged.Rows {
		texts[i] = combineDateTime(row[cols.Date], row[cols.Time])
	}
	stamps, convention, err := parseTimestamps(texts, loc)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		RunID:        runID,
		LoadedAt:     started,
		Convention:   convention,
		Columns:      cols,
		PlantLabels:  p.PlantRules.Labels(),
		Tickets:      make([]Ticket, 0, len(merged.Rows)),
		SourceErrors: srcErrs,
		Warnings:     append([]string(nil), p.Warnings...),
	}

	parsed := 0
	for i, row := range merged.Rows {
		t := Ticket{
			Source:   row[sourceColumn],
			ID:       row[cols.ID],
			DateText: row[cols.Date],
			TimeText: row[cols.Time],
			Reason:   row[cols.Reason],
			Station:  row[cols.Station],
			Vendor:   row[cols.Vendor],
			Note:     row[cols.Note],
		}
		if ts := stamps[i]; !ts.IsZero() {
			t.Timestamp = ts
			t.WeekStart = WeekStartAt(ts)
			t.WeekLabel = t.WeekStart.Format("2006-01-02")
			t.MonthKey = ts.Format("2006-01")
			parsed++
		}
		t.Theme = p.ThemeRules.Classify(t.Reason)
		t.Plant = p.PlantRules.Classify(t.Vendor)
		ds.Tickets = append(ds.Tickets, t)
	}

	log.Printf("load complete run=%s sources_ok=%d/%d rows=%d parsed=%d convention=%s",
		runID, len(p.Sources)-len(srcErrs), len(p.Sources), len(ds.Tickets), parsed, convention)
	return ds, nil
}
