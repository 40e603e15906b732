package main

import (
	"testing"
	"time"
)

// filterTickets spans two weeks (2024-02-26 and 2024-03-11) plus one row
// without a timestamp.
func filterTickets() []Ticket {
	return []Ticket{
		ticketAt(1, "r1", "215", "NSP", "NSP"),
		ticketAt(12, "r2", "217", "Парус", "Parus"),
		ticketAt(13, "r3", "215", "NSP", "NSP"),
		{Reason: "dateless"},
	}
}

func TestFilterWeek(t *testing.T) {
	got := Filter{Week: "2024-03-11"}.Apply(filterTickets())
	if len(got) != 2 {
		t.Fatalf("expected 2 tickets in the week, got %d", len(got))
	}
	for _, tk := range got {
		if tk.WeekLabel != "2024-03-11" {
			t.Fatalf("ticket outside week: %+v", tk)
		}
	}
}

func TestFilterDateRangeInclusiveEnd(t *testing.T) {
	f := Filter{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
	}
	got := f.Apply(filterTickets())
	// March 12 12:00 falls inside the inclusive end date.
	if len(got) != 2 {
		t.Fatalf("expected 2 tickets, got %d: %v", len(got), got)
	}
	if got[1].Reason != "r2" {
		t.Fatalf("expected the March 12 ticket included, got %+v", got[1])
	}
}

func TestFilterRangeBeatsWeek(t *testing.T) {
	f := Filter{
		Week: "2024-02-26",
		From: time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
	}
	got := f.Apply(filterTickets())
	if len(got) != 1 || got[0].Reason != "r3" {
		t.Fatalf("expected the range to win over the week label, got %v", got)
	}
}

func TestFilterDropsDatelessRowsFromPeriods(t *testing.T) {
	f := Filter{From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	for _, tk := range f.Apply(filterTickets()) {
		if tk.Timestamp.IsZero() {
			t.Fatalf("dateless ticket passed a period filter: %+v", tk)
		}
	}
}

func TestFilterThemesAndVendors(t *testing.T) {
	tickets := []Ticket{
		{Theme: "Mobile App", Vendor: "NSP-2000"},
		{Theme: "Mobile App", Vendor: "Парус"},
		{Theme: "Offline/Network", Vendor: "NSP-2000"},
	}

	got := Filter{Themes: []string{"Mobile App"}}.Apply(tickets)
	if len(got) != 2 {
		t.Fatalf("expected 2 mobile app tickets, got %d", len(got))
	}

	got = Filter{Themes: []string{"Mobile App"}, Vendors: []string{"NSP-2000"}}.Apply(tickets)
	if len(got) != 1 || got[0].Vendor != "NSP-2000" {
		t.Fatalf("expected combined filter to intersect, got %v", got)
	}

	got = Filter{Themes: []string{"нет такой"}}.Apply(tickets)
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestFilterEmptyPassesEverything(t *testing.T) {
	tickets := filterTickets()
	got := Filter{}.Apply(tickets)
	if len(got) != len(tickets) {
		t.Fatalf("expected all %d tickets, got %d", len(tickets), len(got))
	}
}
