package main

import "strings"

// Columns maps each logical field to the sheet header it resolved to.
// An empty value means the field is absent from the data.
type Columns struct {
	ID      string
	Date    string
	Time    string
	Reason  string
	Station string
	Vendor  string
	Note    string
}

// Candidate header names per logical field, in priority order. The lists
// carry the spellings seen across the complaint sheets over the years.
var (
	idCandidates      = []string{"№", "N", "No", "Номер", "ID"}
	dateCandidates    = []string{"Дата обращения", "Дата", "Date"}
	timeCandidates    = []string{"Время обращения", "Время", "Time"}
	reasonCandidates  = []string{"Причина обращения", "Причина", "Тема обращения"}
	stationCandidates = []string{"Номер ЭЗС", "ЭЗС", "Station", "Станция"}
	vendorCandidates  = []string{"Производитель станции", "Производитель", "Vendor"}
	noteCandidates    = []string{"Примечание", "Комментарий", "Note"}
)

// normalizeText lowercases and collapses whitespace runs to single spaces.
// Header matching and keyword classification both compare through it.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// resolveColumn returns the original header matching one of the candidates.
// Every candidate is tried for an exact normalized match before any substring
// match is accepted, so "Дата" never steals a header from "Дата обращения".
// Substring matching runs candidate by candidate over headers in sheet order.
// Returns "" when nothing matches.
func resolveColumn(headers, candidates []string) string {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeText(h)
	}

	for _, cand := range candidates {
		key := normalizeText(cand)
		for i, n := range normalized {
			if n == key {
				return headers[i]
			}
		}
	}
	for _, cand := range candidates {
		key := normalizeText(cand)
		if key == "" {
			continue
		}
		for i, n := range normalized {
			if strings.Contains(n, key) {
				return headers[i]
			}
		}
	}
	return ""
}

// resolveColumns matches every logical field against the merged header set.
// Date and reason are required; the other fields degrade to empty values.
func resolveColumns(headers []string) (Columns, error) {
	cols := Columns{
		ID:      resolveColumn(headers, idCandidates),
		Date:    resolveColumn(headers, dateCandidates),
		Time:    resolveColumn(headers, timeCandidates),
		Reason:  resolveColumn(headers, reasonCandidates),
		Station: resolveColumn(headers, stationCandidates),
		Vendor:  resolveColumn(headers, vendorCandidates),
		Note:    resolveColumn(headers, noteCandidates),
	}
	if cols.Date == "" {
		return cols, &MissingColumnError{Field: "date", Candidates: dateCandidates}
	}
	if cols.Reason == "" {
		return cols, &MissingColumnError{Field: "reason", Candidates: reasonCandidates}
	}
	return cols, nil
}
