package main

import (
	"errors"
	"testing"
	"time"
)

func TestCombineDateTime(t *testing.T) {
	cases := []struct{ date, clock, want string }{
		{"01.03.2024", "14:30", "01.03.2024 14:30"},
		{"01.03.2024", "", "01.03.2024"},
		{"  01.03.2024  ", " 14:30 ", "01.03.2024 14:30"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := combineDateTime(tc.date, tc.clock); got != tc.want {
			t.Fatalf("combineDateTime(%q, %q) = %q, want %q", tc.date, tc.clock, got, tc.want)
		}
	}
}

func TestParseTimestampsDayFirst(t *testing.T) {
	texts := []string{
		"01.03.2024 14:30", // ambiguous, but the set reads day-first
		"15.03.2024",       // day > 12 pins the order
		"1.3.2024 9:05",    // non-padded
		"2024-03-20 08:00", // ISO passthrough
	}
	times, convention, err := parseTimestamps(texts, time.UTC)
	if err != nil {
		t.Fatalf("parseTimestamps failed: %v", err)
	}
	if convention != conventionDayFirst {
		t.Fatalf("expected day-first convention, got %q", convention)
	}
	want := []time.Time{
		time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC),
		time.Date(2024, 3, 20, 8, 0, 0, 0, time.UTC),
	}
	for i := range want {
		if !times[i].Equal(want[i]) {
			t.Fatalf("row %d: expected %v, got %v", i, want[i], times[i])
		}
	}
}

func TestParseTimestampsMonthFirstWins(t *testing.T) {
	// Every row has the day past 12 in the second position, so day-first
	// parsing fails across the board and the month-first trial wins.
	texts := []string{"12/25/2024", "03/26/2024 10:00", "04/27/2024"}
	times, convention, err := parseTimestamps(texts, time.UTC)
	if err != nil {
		t.Fatalf("parseTimestamps failed: %v", err)
	}
	if convention != conventionMonthFirst {
		t.Fatalf("expected month-first convention, got %q", convention)
	}
	if !times[0].Equal(time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first timestamp: %v", times[0])
	}
	if !times[1].Equal(time.Date(2024, 3, 26, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected second timestamp: %v", times[1])
	}
}

func TestParseTimestampsTieFallsBackDayFirst(t *testing.T) {
	// One row only parses day-first, one only month-first, one not at all.
	// Day-first covers 1/3 < half, the trial ties 1:1 and day-first stays.
	texts := []string{"25/12/2024", "12/25/2024", "not a date"}
	times, convention, err := parseTimestamps(texts, time.UTC)
	if err != nil {
		t.Fatalf("parseTimestamps failed: %v", err)
	}
	if convention != conventionDayFirst {
		t.Fatalf("expected tie to fall back to day-first, got %q", convention)
	}
	if !times[0].Equal(time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected parse of day-first row: %v", times[0])
	}
	if !times[1].IsZero() || !times[2].IsZero() {
		t.Fatalf("expected zero timestamps for losing rows, got %v and %v", times[1], times[2])
	}
}

func TestParseTimestampsBadRowGetsZero(t *testing.T) {
	texts := []string{"01.03.2024", "02.03.2024", "пятница"}
	times, _, err := parseTimestamps(texts, time.UTC)
	if err != nil {
		t.Fatalf("parseTimestamps failed: %v", err)
	}
	if times[0].IsZero() || times[1].IsZero() {
		t.Fatalf("expected good rows to parse, got %v and %v", times[0], times[1])
	}
	if !times[2].IsZero() {
		t.Fatalf("expected zero timestamp for unparseable row, got %v", times[2])
	}
}

func TestParseTimestampsAllFail(t *testing.T) {
	_, _, err := parseTimestamps([]string{"n/a", "", "скоро"}, time.UTC)
	if !errors.Is(err, ErrNoUsableDates) {
		t.Fatalf("expected ErrNoUsableDates, got %v", err)
	}
}

func TestParseTimestampsEmptyInput(t *testing.T) {
	times, convention, err := parseTimestamps(nil, time.UTC)
	if err != nil {
		t.Fatalf("expected no error for empty input, got %v", err)
	}
	if times != nil || convention != conventionDayFirst {
		t.Fatalf("unexpected empty-input result: %v, %q", times, convention)
	}
}

func TestParseTimestampUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts, ok := parseTimestamp("01.03.2024 14:30", dayFirstLayouts, loc)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if ts.Location() != loc {
		t.Fatalf("expected timestamp in %v, got %v", loc, ts.Location())
	}
}
