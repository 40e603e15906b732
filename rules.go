package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps a label onto the keyword stems that select it. Keywords are
// stored normalized (lowercase, collapsed whitespace).
type Rule struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Ruleset is an ordered rule list plus the label used when nothing matches.
// Rules are applied top to bottom and the first keyword hit wins, so broader
// rules belong further down.
type Ruleset struct {
	Rules    []Rule
	Fallback string
}

const fallbackLabel = "Other"

// defaultThemeRules is the built-in complaint taxonomy. The keyword stems
// come from several years of support sheets, so they stay Russian even though
// the labels are English.
func defaultThemeRules() Ruleset {
	return Ruleset{
		Fallback: fallbackLabel,
		Rules: []Rule{
			{Label: "Mobile App", Keywords: []string{"мобильн", "прилож"}},
			{Label: "Launch/Authorization", Keywords: []string{"не запускает", "запуск", "авториза"}},
			{Label: "Session Interruption", Keywords: []string{"прерыван", "самопроизвольн", "сесси"}},
			{Label: "Payments/Balance", Keywords: []string{"пополн", "банковск", "баланс", "денеж", "возврат"}},
			{Label: "Charging Speed/Power", Keywords: []string{"низкая скорость", "медленно", "мощност"}},
			{Label: "Offline/Network", Keywords: []string{"не в сети", "недоступ", "мониторинг"}},
			{Label: "Parking/Occupied", Keywords: []string{"парков", "занято", "двс", "пдд"}},
			{Label: "Connectors/Button", Keywords: []string{"коннектор", "аварийн", "кнопк"}},
			{Label: "Station Installation", Keywords: []string{"установк", "территори"}},
		},
	}
}

// defaultPlantRules groups station vendors into the two manufacturer plants
// plus the fallback. The label set is closed: fixed-column tables always show
// all three.
func defaultPlantRules() Ruleset {
	return Ruleset{
		Fallback: fallbackLabel,
		Rules: []Rule{
			{Label: "NSP", Keywords: []string{"nsp", "нсп"}},
			{Label: "Parus", Keywords: []string{"parus", "парус"}},
		},
	}
}

// LoadRules reads a YAML rule list from path. Any problem (unreadable file,
// bad YAML, empty list) falls back to the defaults wholesale and returns a
// warning; a broken config never produces a half-applied rule list.
func LoadRules(path string, defaults Ruleset) (Ruleset, string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return defaults, fmt.Sprintf("rules %s: %v (using built-in rules)", path, err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return defaults, fmt.Sprintf("rules %s: %v (using built-in rules)", path, err)
	}
	if len(rules) == 0 {
		return defaults, fmt.Sprintf("rules %s: no rules in file (using built-in rules)", path)
	}
	return Ruleset{Rules: sanitizeRules(rules), Fallback: defaults.Fallback}, ""
}

// sanitizeRules normalizes configured rules: labels get a placeholder when
// blank, keywords are normalized, and blank keywords are dropped since a ""
// substring would match every row. A rule left without keywords is kept but
// can never match.
func sanitizeRules(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		label := strings.TrimSpace(r.Label)
		if label == "" {
			label = "Unlabeled"
		}
		kws := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = normalizeText(k); k != "" {
				kws = append(kws, k)
			}
		}
		out = append(out, Rule{Label: label, Keywords: kws})
	}
	return out
}
