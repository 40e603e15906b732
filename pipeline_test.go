package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

func fixtureConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "Смена 1",
		"№,Дата обращения,Время обращения,Причина обращения,Номер ЭЗС,Производитель станции\n"+
			"1,01.03.2024,14:30,Не запускается сессия,215,NSP-2000\n"+
			"2,02.03.2024,,Приложение зависло,217,Парус-АТ\n")
	writeFixture(t, dir, "Смена 2",
		"Дата обращения,Причина обращения,Номер ЭЗС\n"+
			"15.03.2024,Станция не в сети,220\n")
	return Config{
		SourceDir: dir,
		Sources:   []Source{{Name: "Смена 1"}, {Name: "Смена 2"}},
		Location:  time.UTC,
	}
}

func TestPipelineLoad(t *testing.T) {
	p, err := NewPipeline(fixtureConfig(t))
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	defer p.Close()

	ds, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(ds.Tickets) != 3 {
		t.Fatalf("expected 3 tickets, got %d", len(ds.Tickets))
	}
	if ds.Convention != conventionDayFirst {
		t.Fatalf("expected day-first convention, got %q", ds.Convention)
	}
	if ds.Columns.Station != "Номер ЭЗС" || ds.Columns.Reason != "Причина обращения" {
		t.Fatalf("unexpected column resolution: %+v", ds.Columns)
	}
	if ds.RunID == "" {
		t.Fatal("expected a run id")
	}

	first := ds.Tickets[0]
	if first.Source != "Смена 1" {
		t.Fatalf("unexpected source tag: %q", first.Source)
	}
	if first.Theme != "Launch/Authorization" {
		t.Fatalf("unexpected theme: %q", first.Theme)
	}
	if first.Plant != "NSP" {
		t.Fatalf("unexpected plant: %q", first.Plant)
	}
	if !first.Timestamp.Equal(time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp: %v", first.Timestamp)
	}
	if first.WeekLabel != "2024-02-26" || first.MonthKey != "2024-03" {
		t.Fatalf("unexpected derived keys: %q %q", first.WeekLabel, first.MonthKey)
	}

	second := ds.Tickets[1]
	if second.Theme != "Mobile App" || second.Plant != "Parus" {
		t.Fatalf("unexpected classification: %q %q", second.Theme, second.Plant)
	}

	third := ds.Tickets[2]
	if third.Source != "Смена 2" || third.Theme != "Offline/Network" {
		t.Fatalf("unexpected third ticket: %+v", third)
	}
	if third.Plant != "Other" {
		t.Fatalf("expected missing vendor to classify as Other, got %q", third.Plant)
	}

	labels := ds.PlantLabels
	if len(labels) != 3 || labels[0] != "NSP" || labels[2] != "Other" {
		t.Fatalf("unexpected plant label universe: %v", labels)
	}
	if got := ds.LatestWeekLabel(); got != "2024-03-11" {
		t.Fatalf("unexpected latest week: %q", got)
	}
}

func TestPipelineLoadMissingReasonColumn(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "Смена 1", "Дата,Станция\n01.03.2024,215\n")
	p, err := NewPipeline(Config{
		SourceDir: dir,
		Sources:   []Source{{Name: "Смена 1"}},
		Location:  time.UTC,
	})
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	defer p.Close()

	_, err = p.Load(context.Background())
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if missing.Field != "reason" {
		t.Fatalf("expected missing reason, got %q", missing.Field)
	}
}

func TestPipelineLoadNoUsableDates(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "Смена 1", "Дата,Причина\nскоро,Не в сети\nпотом,Занято\n")
	p, err := NewPipeline(Config{
		SourceDir: dir,
		Sources:   []Source{{Name: "Смена 1"}},
		Location:  time.UTC,
	})
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	defer p.Close()

	if _, err := p.Load(context.Background()); !errors.Is(err, ErrNoUsableDates) {
		t.Fatalf("expected ErrNoUsableDates, got %v", err)
	}
}

func TestPipelineRulesWarningPropagates(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.ThemeRulesPath = filepath.Join(t.TempDir(), "absent.yaml")

	p, err := NewPipeline(cfg)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	defer p.Close()

	// Broken rules degrade to the built-ins instead of failing the load.
	if len(p.ThemeRules.Rules) != len(defaultThemeRules().Rules) {
		t.Fatalf("expected built-in rules, got %d", len(p.ThemeRules.Rules))
	}

	ds, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(ds.Warnings) == 0 {
		t.Fatal("expected rules warning on the dataset")
	}
}

func TestPipelinePersistentCache(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.CachePath = filepath.Join(t.TempDir(), "cache.db")
	cfg.CacheTTLMinutes = 10

	p, err := NewPipeline(cfg)
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	defer p.Close()

	if _, err := p.Load(context.Background()); err != nil {
		t.Fatalf("first load failed: %v", err)
	}

	// Remove the fixtures; the snapshot cache must carry the second load.
	if err := os.RemoveAll(cfg.SourceDir); err != nil {
		t.Fatalf("removing fixtures: %v", err)
	}
	ds, err := p.Load(context.Background())
	if err != nil {
		t.Fatalf("cached load failed: %v", err)
	}
	if len(ds.Tickets) != 3 {
		t.Fatalf("expected cached rows, got %d tickets", len(ds.Tickets))
	}
}
