package main

import "strings"

// Classify returns the label of the first rule with a keyword contained in
// the normalized text. Rules and their keywords are scanned in order and the
// scan stops at the first hit; no match returns the fallback label.
func (rs Ruleset) Classify(text string) string {
	normalized := normalizeText(text)
	if normalized == "" {
		return rs.Fallback
	}
	for _, rule := range rs.Rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(normalized, kw) {
				return rule.Label
			}
		}
	}
	return rs.Fallback
}

// Labels returns every label the ruleset can produce, in rule order with the
// fallback last. Fixed-column tables use this as their column universe so
// their shape never depends on which labels actually occur in the data.
func (rs Ruleset) Labels() []string {
	labels := make([]string, 0, len(rs.Rules)+1)
	seen := make(map[string]bool, len(rs.Rules)+1)
	for _, rule := range rs.Rules {
		if !seen[rule.Label] {
			seen[rule.Label] = true
			labels = append(labels, rule.Label)
		}
	}
	if !seen[rs.Fallback] {
		labels = append(labels, rs.Fallback)
	}
	return labels
}
