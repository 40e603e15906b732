package main

import "time"

// Filter narrows a dataset to one reporting period plus optional theme and
// vendor selections. Zero-value fields are inactive. A date range takes
// precedence over a week label; the end date is inclusive.
type Filter struct {
	Week    string // "2006-01-02" Monday label
	From    time.Time
	To      time.Time
	Themes  []string
	Vendors []string
}

// Apply returns the tickets passing every active criterion. Rows without a
// usable timestamp never pass a period criterion.
func (f Filter) Apply(tickets []Ticket) []Ticket {
	themeSet := stringSet(f.Themes)
	vendorSet := stringSet(f.Vendors)

	var out []Ticket
	for _, t := range tickets {
		if !f.From.IsZero() || !f.To.IsZero() {
			if t.Timestamp.IsZero() {
				continue
			}
			if !f.From.IsZero() && t.Timestamp.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && !t.Timestamp.Before(f.To.AddDate(0, 0, 1)) {
				continue
			}
		} else if f.Week != "" && t.WeekLabel != f.Week {
			continue
		}
		if themeSet != nil && !themeSet[t.Theme] {
			continue
		}
		if vendorSet != nil && !vendorSet[t.Vendor] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func stringSet(vals []string) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	set := make(map[string]bool, len(vals))
	for _, v := range vals {
		set[v] = true
	}
	return set
}
