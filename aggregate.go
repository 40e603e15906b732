package main

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// placeholder stands in for blank labels in ranked tables, matching the dash
// the old manual reports used.
const placeholder = "—"

type LabelCount struct {
	Label string
	Count int
}

type WeekCount struct {
	Week  string
	Count int
}

type MonthCount struct {
	Month string
	Count int
}

type StationCount struct {
	Station string
	Vendor  string
	Count   int
}

// WeeklyTrend counts complaints per calendar week, weeks ascending. Callers
// pass the full dataset, not the filtered view: the chart keeps showing the
// whole history regardless of the active filter.
func WeeklyTrend(tickets []Ticket) []WeekCount {
	counts := make(map[string]int)
	for _, t := range tickets {
		if t.Timestamp.IsZero() {
			continue
		}
		counts[t.WeekLabel]++
	}
	out := make([]WeekCount, 0, len(counts))
	for week, n := range counts {
		out = append(out, WeekCount{Week: week, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

// CountBy ranks tickets by an arbitrary label, most frequent first with ties
// broken alphabetically so repeat runs produce identical tables. Blank labels
// count under the placeholder.
func CountBy(tickets []Ticket, key func(Ticket) string) []LabelCount {
	counts := make(map[string]int)
	for _, t := range tickets {
		label := strings.TrimSpace(key(t))
		if label == "" {
			label = placeholder
		}
		counts[label]++
	}
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// CrossTab builds the reason-by-plant matrix. The plant columns always carry
// the full label universe in the given order plus a trailing Total column,
// and a Total row closes the table, so the shape never depends on which
// labels occur in the data. Rows are ordered by total descending, then by
// reason text.
func CrossTab(tickets []Ticket, plantLabels []string) OutputTable {
	cells := make(map[string]map[string]int)
	rowTotals := make(map[string]int)
	colTotals := make(map[string]int)

	for _, t := range tickets {
		reason := strings.TrimSpace(t.Reason)
		if reason == "" {
			reason = placeholder
		}
		if cells[reason] == nil {
			cells[reason] = make(map[string]int)
		}
		cells[reason][t.Plant]++
		rowTotals[reason]++
		colTotals[t.Plant]++
	}

	reasons := make([]string, 0, len(cells))
	for r := range cells {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if rowTotals[reasons[i]] != rowTotals[reasons[j]] {
			return rowTotals[reasons[i]] > rowTotals[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})

	columns := make([]string, 0, len(plantLabels)+2)
	columns = append(columns, "Reason")
	columns = append(columns, plantLabels...)
	columns = append(columns, "Total")

	table := OutputTable{Name: "Reasons x Plants", Columns: columns}
	grand := 0
	for _, reason := range reasons {
		row := make([]string, 0, len(columns))
		row = append(row, reason)
		for _, label := range plantLabels {
			row = append(row, strconv.Itoa(cells[reason][label]))
		}
		row = append(row, strconv.Itoa(rowTotals[reason]))
		grand += rowTotals[reason]
		table.Rows = append(table.Rows, row)
	}

	totalRow := make([]string, 0, len(columns))
	totalRow = append(totalRow, "Total")
	for _, label := range plantLabels {
		totalRow = append(totalRow, strconv.Itoa(colTotals[label]))
	}
	totalRow = append(totalRow, strconv.Itoa(grand))
	table.Rows = append(table.Rows, totalRow)
	return table
}

// MonthlySummary counts complaints per calendar month over a fixed window,
// zero-filling months without data so consecutive reports stay comparable.
// Complaints outside the window are not shown. Like the weekly trend this
// works on the unfiltered dataset.
func MonthlySummary(tickets []Ticket, from, to time.Time) []MonthCount {
	counts := make(map[string]int)
	for _, t := range tickets {
		if t.Timestamp.IsZero() {
			continue
		}
		counts[t.MonthKey]++
	}

	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	var out []MonthCount
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		out = append(out, MonthCount{Month: key, Count: counts[key]})
	}
	return out
}

// TopStations ranks stations by complaint count, ties broken by station name,
// and attaches each station's majority vendor. Rows with a blank station are
// skipped entirely.
func TopStations(tickets []Ticket, limit int) []StationCount {
	counts := make(map[string]int)
	vendors := make(map[string]map[string]int)
	for _, t := range tickets {
		station := strings.TrimSpace(t.Station)
		if station == "" {
			continue
		}
		counts[station]++
		if v := strings.TrimSpace(t.Vendor); v != "" {
			if vendors[station] == nil {
				vendors[station] = make(map[string]int)
			}
			vendors[station][v]++
		}
	}

	out := make([]StationCount, 0, len(counts))
	for station, count := range counts {
		out = append(out, StationCount{
			Station: station,
			Count:   count,
			Vendor:  majorityVendor(vendors[station]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Station < out[j].Station
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// majorityVendor picks the most frequent vendor, resolving ties to the
// alphabetically smallest value. No vendors at all yields the placeholder.
func majorityVendor(counts map[string]int) string {
	best, bestCount := placeholder, 0
	for vendor, count := range counts {
		if count > bestCount || (count == bestCount && bestCount > 0 && vendor < best) {
			best, bestCount = vendor, count
		}
	}
	return best
}
