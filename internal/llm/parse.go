package llm

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// extractJSON pulls the JSON object out of a model reply, tolerating markdown
// code fences and leading prose around the object.
func extractJSON(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("no JSON object in model reply: %q", truncate(content, 200))
	}
	obj := trimmed[start : end+1]
	if !gjson.Valid(obj) {
		return "", fmt.Errorf("malformed JSON in model reply: %q", truncate(obj, 200))
	}
	return obj, nil
}

func parseAnswer(content, finishReason string) (*AnswerPayload, error) {
	obj, err := extractJSON(content)
	if err != nil {
		return nil, err
	}
	payload := &AnswerPayload{
		Response:     gjson.Get(obj, "response").String(),
		FinishReason: finishReason,
	}
	for _, ref := range gjson.Get(obj, "references").Array() {
		payload.References = append(payload.References, int(ref.Int()))
	}
	return payload, nil
}

func parseEnrichment(content string) (*EnrichmentPayload, error) {
	obj, err := extractJSON(content)
	if err != nil {
		return nil, err
	}
	return &EnrichmentPayload{
		StandaloneQuestion: gjson.Get(obj, "standalone_question").String(),
		EndConversation:    gjson.Get(obj, "end_conversation").Bool(),
	}, nil
}

func parseIntent(content string) (string, error) {
	obj, err := extractJSON(content)
	if err != nil {
		return "", err
	}
	intent := gjson.Get(obj, "intent").String()
	if intent == "" {
		return "", fmt.Errorf("intent missing from model reply: %q", truncate(obj, 200))
	}
	return intent, nil
}

func parseStatus(content string) (*StatusPayload, error) {
	obj, err := extractJSON(content)
	if err != nil {
		return nil, err
	}
	return &StatusPayload{
		HasAnswer: gjson.Get(obj, "has_answer").Bool(),
		Answer:    gjson.Get(obj, "answer").String(),
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
