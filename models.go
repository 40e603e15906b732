package main

import "time"

// Ticket is one normalized complaint row from a source sheet.
// Raw fields keep the original cell text; empty string means the cell (or the
// whole column) was absent. Derived fields are filled once during the load
// cycle and never mutated afterwards.
type Ticket struct {
	Source   string // name of the source sheet the row came from
	ID       string
	DateText string
	TimeText string
	Reason   string
	Station  string
	Vendor   string
	Note     string

	Timestamp time.Time // zero when the row failed date parsing
	WeekStart time.Time
	WeekLabel string // "2006-01-02" of the Monday starting the week
	MonthKey  string // "2006-01"
	Theme     string
	Plant     string
}

// Source is one worksheet to ingest: the sheet gid inside the spreadsheet and
// a short name used for row tagging and cache keys.
type Source struct {
	GID  string `yaml:"gid"`
	Name string `yaml:"name"`
}

// Dataset is the result of one load cycle. Aggregations and filters read it,
// nothing writes it after Load returns.
type Dataset struct {
	RunID       string
	LoadedAt    time.Time
	Convention  string // winning date order: "day-first" or "month-first"
	Columns     Columns
	PlantLabels []string // full plant label universe, in rule order
	Tickets     []Ticket

	SourceErrors []SourceError
	Warnings     []string
}

// LatestWeekLabel returns the most recent week present in the data, or ""
// when no row has a usable timestamp. It is the default reporting period.
func (d *Dataset) LatestWeekLabel() string {
	latest := ""
	for _, t := range d.Tickets {
		if t.Timestamp.IsZero() {
			continue
		}
		if t.WeekLabel > latest {
			latest = t.WeekLabel
		}
	}
	return latest
}

// WeekStartAt returns Monday 00:00:00 of t's calendar week.
func WeekStartAt(t time.Time) time.Time {
	weekday := t.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	daysFromMonday := int(weekday) - int(time.Monday)
	return time.Date(t.Year(), t.Month(), t.Day()-daysFromMonday, 0, 0, 0, 0, t.Location())
}

// WeekRangeAt returns Monday 00:00:00 and next Monday 00:00:00 around t.
func WeekRangeAt(t time.Time) (time.Time, time.Time) {
	monday := WeekStartAt(t)
	return monday, monday.AddDate(0, 0, 7)
}
