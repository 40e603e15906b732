package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Report holds one computed load cycle: the filtered view plus every
// aggregate, ready for the text, CSV and XLSX writers.
type Report struct {
	Dataset  *Dataset
	Filter   Filter
	Filtered []Ticket

	Trend   []WeekCount
	Themes  []LabelCount
	Plants  []LabelCount
	Reasons []LabelCount
	Monthly []MonthCount
	Top     []StationCount
	Cross   OutputTable
}

// KPIs are the headline numbers over the filtered view.
type KPIs struct {
	Total          int
	UniqueStations int
	TopTheme       string
	TopReason      string
}

// BuildReport computes every output table over the dataset with the given
// filter. The weekly trend and the monthly summary deliberately use the
// unfiltered dataset; everything else uses the filtered view.
func BuildReport(ds *Dataset, f Filter, cfg Config) Report {
	filtered := f.Apply(ds.Tickets)
	from, to := summaryWindow(cfg, ds)
	return Report{
		Dataset:  ds,
		Filter:   f,
		Filtered: filtered,
		Trend:    WeeklyTrend(ds.Tickets),
		Themes:   CountBy(filtered, func(t Ticket) string { return t.Theme }),
		Plants:   CountBy(filtered, func(t Ticket) string { return t.Plant }),
		Reasons:  CountBy(filtered, func(t Ticket) string { return t.Reason }),
		Monthly:  MonthlySummary(ds.Tickets, from, to),
		Top:      TopStations(filtered, cfg.TopStations),
		Cross:    CrossTab(filtered, ds.PlantLabels),
	}
}

// summaryWindow resolves the monthly summary range: configured bounds win,
// otherwise January through December of the latest complaint's year.
func summaryWindow(cfg Config, ds *Dataset) (time.Time, time.Time) {
	year := 0
	for _, t := range ds.Tickets {
		if !t.Timestamp.IsZero() && t.Timestamp.Year() > year {
			year = t.Timestamp.Year()
		}
	}
	if year == 0 {
		year = ds.LoadedAt.Year()
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 1, 0, 0, 0, 0, time.UTC)
	if cfg.SummaryFrom != "" {
		if m, err := time.Parse("2006-01", cfg.SummaryFrom); err == nil {
			from = m
		}
	}
	if cfg.SummaryTo != "" {
		if m, err := time.Parse("2006-01", cfg.SummaryTo); err == nil {
			to = m
		}
	}
	return from, to
}

func (r Report) KPIs() KPIs {
	k := KPIs{Total: len(r.Filtered)}
	stations := make(map[string]bool)
	for _, t := range r.Filtered {
		if s := strings.TrimSpace(t.Station); s != "" {
			stations[s] = true
		}
	}
	k.UniqueStations = len(stations)
	if len(r.Themes) > 0 {
		k.TopTheme = r.Themes[0].Label
	}
	if len(r.Reasons) > 0 {
		k.TopReason = r.Reasons[0].Label
	}
	return k
}

// PeriodLabel describes the active period filter.
func (r Report) PeriodLabel() string {
	f := r.Filter
	switch {
	case !f.From.IsZero() || !f.To.IsZero():
		from, to := "...", "..."
		if !f.From.IsZero() {
			from = f.From.Format("2006-01-02")
		}
		if !f.To.IsZero() {
			to = f.To.Format("2006-01-02")
		}
		return fmt.Sprintf("%s to %s", from, to)
	case f.Week != "":
		return fmt.Sprintf("week of %s", f.Week)
	default:
		return "all time"
	}
}

// FilteredTable materializes the filtered view, newest first, with the raw
// sheet columns that resolved plus the derived labels.
func (r Report) FilteredTable() OutputTable {
	cols := r.Dataset.Columns
	type field struct {
		header string
		value  func(Ticket) string
	}
	var fields []field
	if cols.ID != "" {
		fields = append(fields, field{cols.ID, func(t Ticket) string { return t.ID }})
	}
	fields = append(fields, field{cols.Date, func(t Ticket) string { return t.DateText }})
	if cols.Time != "" {
		fields = append(fields, field{cols.Time, func(t Ticket) string { return t.TimeText }})
	}
	fields = append(fields,
		field{cols.Reason, func(t Ticket) string { return t.Reason }},
		field{"Theme", func(t Ticket) string { return t.Theme }},
	)
	if cols.Station != "" {
		fields = append(fields, field{cols.Station, func(t Ticket) string { return t.Station }})
	}
	if cols.Vendor != "" {
		fields = append(fields,
			field{cols.Vendor, func(t Ticket) string { return t.Vendor }},
			field{"Plant", func(t Ticket) string { return t.Plant }},
		)
	}
	if cols.Note != "" {
		fields = append(fields, field{cols.Note, func(t Ticket) string { return t.Note }})
	}
	fields = append(fields, field{"Source", func(t Ticket) string { return t.Source }})

	sorted := make([]Ticket, len(r.Filtered))
	copy(sorted, r.Filtered)
	// Stable keeps merge order for rows without a timestamp, which sink to
	// the bottom.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	table := OutputTable{Name: "Filtered"}
	for _, f := range fields {
		table.Columns = append(table.Columns, f.header)
	}
	for _, t := range sorted {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = f.value(t)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func (r Report) TrendTable() OutputTable {
	table := OutputTable{Name: "Trend", Columns: []string{"Week", "Complaints"}}
	for _, w := range r.Trend {
		table.Rows = append(table.Rows, []string{w.Week, strconv.Itoa(w.Count)})
	}
	return table
}

func (r Report) ThemesTable() OutputTable { return labelTable("Themes", "Theme", r.Themes) }

func (r Report) PlantsTable() OutputTable { return labelTable("Plants", "Plant", r.Plants) }

func labelTable(name, labelHeader string, counts []LabelCount) OutputTable {
	table := OutputTable{Name: name, Columns: []string{labelHeader, "Complaints"}}
	for _, c := range counts {
		table.Rows = append(table.Rows, []string{c.Label, strconv.Itoa(c.Count)})
	}
	return table
}

func (r Report) MonthlyTable() OutputTable {
	table := OutputTable{Name: "Monthly", Columns: []string{"Month", "Complaints"}}
	for _, m := range r.Monthly {
		table.Rows = append(table.Rows, []string{m.Month, strconv.Itoa(m.Count)})
	}
	return table
}

func (r Report) TopStationsTable() OutputTable {
	table := OutputTable{Name: "Top Stations", Columns: []string{"Station", "Vendor", "Complaints"}}
	for _, s := range r.Top {
		table.Rows = append(table.Rows, []string{s.Station, s.Vendor, strconv.Itoa(s.Count)})
	}
	return table
}

// SummaryTable carries the run metadata and KPIs into the workbook so an
// exported file is traceable to its load cycle.
func (r Report) SummaryTable() OutputTable {
	k := r.KPIs()
	table := OutputTable{Name: "Summary", Columns: []string{"Metric", "Value"}}
	table.Rows = [][]string{
		{"Run", r.Dataset.RunID},
		{"Loaded at", r.Dataset.LoadedAt.Format("2006-01-02 15:04:05")},
		{"Period", r.PeriodLabel()},
		{"Date convention", r.Dataset.Convention},
		{"Complaints", strconv.Itoa(k.Total)},
		{"Unique stations", strconv.Itoa(k.UniqueStations)},
		{"Top theme", k.TopTheme},
		{"Top reason", k.TopReason},
	}
	for _, se := range r.Dataset.SourceErrors {
		table.Rows = append(table.Rows, []string{"Source error", se.Error()})
	}
	for _, w := range r.Dataset.Warnings {
		table.Rows = append(table.Rows, []string{"Warning", w})
	}
	return table
}

// WorkbookTables lists every sheet of the export workbook in order.
func (r Report) WorkbookTables() []OutputTable {
	return []OutputTable{
		r.SummaryTable(),
		r.FilteredTable(),
		r.ThemesTable(),
		r.PlantsTable(),
		r.Cross,
		r.TrendTable(),
		r.MonthlyTable(),
		r.TopStationsTable(),
	}
}

// RenderText renders the report for the terminal.
func (r Report) RenderText() string {
	var b strings.Builder
	k := r.KPIs()

	fmt.Fprintf(&b, "EZS complaints report | %s\n", r.PeriodLabel())
	fmt.Fprintf(&b, "complaints: %d   unique stations: %d\n", k.Total, k.UniqueStations)
	if k.TopTheme != "" {
		fmt.Fprintf(&b, "top theme: %s\n", k.TopTheme)
	}
	if k.TopReason != "" {
		fmt.Fprintf(&b, "top reason: %s\n", k.TopReason)
	}

	if len(r.Dataset.SourceErrors) > 0 {
		b.WriteString("\nSource errors:\n")
		for _, se := range r.Dataset.SourceErrors {
			fmt.Fprintf(&b, "  - %s\n", se.Error())
		}
	}
	for _, w := range r.Dataset.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}

	b.WriteString("\n=== Themes ===\n")
	for _, c := range r.Themes {
		fmt.Fprintf(&b, "%5d  %s\n", c.Count, c.Label)
	}
	b.WriteString("\n=== Plants ===\n")
	for _, c := range r.Plants {
		fmt.Fprintf(&b, "%5d  %s\n", c.Count, c.Label)
	}
	b.WriteString("\n=== Top stations ===\n")
	for _, s := range r.Top {
		fmt.Fprintf(&b, "%5d  %s (%s)\n", s.Count, s.Station, s.Vendor)
	}

	b.WriteString("\n=== Weekly trend ===\n")
	trend := r.Trend
	if len(trend) > 12 {
		trend = trend[len(trend)-12:]
	}
	for _, w := range trend {
		fmt.Fprintf(&b, "%s  %d\n", w.Week, w.Count)
	}
	return b.String()
}
