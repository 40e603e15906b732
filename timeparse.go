package main

import (
	"strings"
	"time"
)

// Names for the two date orders tried during bulk parsing.
const (
	conventionDayFirst   = "day-first"
	conventionMonthFirst = "month-first"
)

// Layout lists for the two conventions. Single-digit day and month tokens
// also accept zero-padded values, so "2.1.2006" parses both "01.03.2024" and
// "1.3.2024". Ambiguous numeric forms appear in both lists with day and month
// swapped; ISO forms are unambiguous and shared.
var dayFirstLayouts = []string{
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
	"2.1.2006",
	"2.1.06 15:04",
	"2.1.06",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2/1/06",
	"2-1-2006 15:04",
	"2-1-2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var monthFirstLayouts = []string{
	"1.2.2006 15:04:05",
	"1.2.2006 15:04",
	"1.2.2006",
	"1.2.06 15:04",
	"1.2.06",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06",
	"1-2-2006 15:04",
	"1-2-2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// combineDateTime joins the date and time cells into one parseable text.
func combineDateTime(dateText, timeText string) string {
	return strings.TrimSpace(strings.TrimSpace(dateText) + " " + strings.TrimSpace(timeText))
}

// parseTimestamps bulk-parses every combined date text and picks the date
// order for the whole dataset: day-first is accepted outright when at least
// half the rows parse under it; otherwise month-first is trialed and the
// higher success count wins, with ties going to day-first. Rows that fail
// under the winning order come back as zero timestamps. Only when every row
// fails under both orders does the load abort.
func parseTimestamps(texts []string, loc *time.Location) ([]time.Time, string, error) {
	if len(texts) == 0 {
		return nil, conventionDayFirst, nil
	}

	dayTimes, dayOK := parseAll(texts, dayFirstLayouts, loc)
	if float64(dayOK) >= 0.5*float64(len(texts)) {
		return dayTimes, conventionDayFirst, nil
	}

	monthTimes, monthOK := parseAll(texts, monthFirstLayouts, loc)
	if dayOK == 0 && monthOK == 0 {
		return nil, "", ErrNoUsableDates
	}
	if monthOK > dayOK {
		return monthTimes, conventionMonthFirst, nil
	}
	return dayTimes, conventionDayFirst, nil
}

func parseAll(texts, layouts []string, loc *time.Location) ([]time.Time, int) {
	out := make([]time.Time, len(texts))
	ok := 0
	for i, text := range texts {
		ts, parsed := parseTimestamp(text, layouts, loc)
		if parsed {
			out[i] = ts
			ok++
		}
	}
	return out, ok
}

func parseTimestamp(text string, layouts []string, loc *time.Location) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, text, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
