package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"gopkg.in/yaml.v3"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// maxSuggestReasons caps how many unclassified reasons go into the prompt.
const maxSuggestReasons = 30

// Stubbed in tests.
var callAnthropicFn = callAnthropic

// SuggestRules asks the model to draft keyword rules for the most frequent
// reasons that fell through to the fallback label. The draft is returned for
// manual review and never applied automatically, so report runs stay
// deterministic.
func SuggestRules(ctx context.Context, cfg Config, ds *Dataset, rules Ruleset) (string, error) {
	var unclassified []Ticket
	for _, t := range ds.Tickets {
		if t.Theme == rules.Fallback && strings.TrimSpace(t.Reason) != "" {
			unclassified = append(unclassified, t)
		}
	}
	if len(unclassified) == 0 {
		return "", fmt.Errorf("nothing to suggest: every reason matched a rule")
	}

	reasons := CountBy(unclassified, func(t Ticket) string { return t.Reason })
	if len(reasons) > maxSuggestReasons {
		reasons = reasons[:maxSuggestReasons]
	}

	systemPrompt, userPrompt := buildSuggestPrompts(rules, reasons)
	model := cfg.LLMModel
	if model == "" {
		model = defaultAnthropicModel
	}
	log.Printf("llm suggest-rules model=%s reasons=%d rows=%d", model, len(reasons), len(unclassified))

	response, err := callAnthropicFn(ctx, cfg.AnthropicAPIKey, model, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	draft := cleanYAMLResponse(response)
	var parsed []Rule
	if err := yaml.Unmarshal([]byte(draft), &parsed); err != nil {
		log.Printf("llm draft did not parse as rules: %v", err)
	} else {
		log.Printf("llm draft rules=%d", len(parsed))
	}
	return draft, nil
}

func buildSuggestPrompts(rules Ruleset, unmatched []LabelCount) (string, string) {
	var ruleLines strings.Builder
	for _, r := range rules.Rules {
		ruleLines.WriteString(fmt.Sprintf("- %s: %s\n", r.Label, strings.Join(r.Keywords, ", ")))
	}

	systemPrompt := fmt.Sprintf(`You help maintain keyword rules that classify charging-station complaints.
Current rules (label: keywords), applied in order with the first match winning:
%s
Complaints matching no rule fall through to %q.

Draft additional rules covering the unclassified reasons below. Reuse an existing label when a reason fits one; invent a new label only for a clear new group. Keywords must be lowercase substrings of the reason texts, Russian stems preferred.

Respond with YAML only (no markdown):
- label: Some Label
  keywords: ["stem1", "stem2"]`, ruleLines.String(), rules.Fallback)

	var reasonLines strings.Builder
	for _, c := range unmatched {
		reasonLines.WriteString(fmt.Sprintf("%4dx %s\n", c.Count, c.Label))
	}
	userPrompt := "Unclassified reasons (count, text):\n" + reasonLines.String()
	return systemPrompt, userPrompt
}

func cleanYAMLResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func callAnthropic(ctx context.Context, apiKey, model, systemPrompt, userPrompt string) (string, error) {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		log.Printf("llm anthropic error: %v", err)
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm anthropic response size=%d tokens_in=%d tokens_out=%d",
				len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}
