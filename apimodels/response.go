package apimodels

import "encoding/json"

// OrchestrationResult is the final outcome of one pipeline run. At most one of
// CuratedAnswer, LlmAnswer and MonitorFormApplication is populated; all three
// are absent only when the conversation was terminated during enrichment.
type OrchestrationResult struct {
	// AnswerText is the text shown to the user.
	AnswerText string `json:"answer_text"`

	// StandaloneQuestion is the history-resolved rewrite of the user's
	// question, when enrichment ran and produced one.
	StandaloneQuestion string `json:"standalone_question,omitempty"`

	CuratedAnswer          *CuratedAnswerPayload `json:"curated_answer,omitempty"`
	LlmAnswer              *LlmAnswerPayload     `json:"llm_answer,omitempty"`
	MonitorFormApplication *MonitorFormPayload   `json:"monitor_form_application,omitempty"`
}

// CuratedAnswerPayload carries a pre-authored answer accepted by the
// curated-QA backend.
type CuratedAnswerPayload struct {
	Text string `json:"text"`

	// SecondPass is true when the hit came from the post-enrichment retry
	// rather than the raw question.
	SecondPass bool `json:"second_pass,omitempty"`

	// Auxiliary is the backend payload with the duplicated answer text
	// stripped out.
	Auxiliary json.RawMessage `json:"auxiliary,omitempty"`
}

// LlmAnswerPayload carries a retrieval-augmented completion together with the
// evidence that grounds it.
type LlmAnswerPayload struct {
	Text         string     `json:"text"`
	Links        []string   `json:"links"`
	References   []int      `json:"references"`
	FinishReason string     `json:"finish_reason"`
	Evidence     []Evidence `json:"evidence,omitempty"`
}

// Evidence is one retrieved chunk cited (or citable) by the answer.
type Evidence struct {
	Reference int     `json:"reference"`
	ChunkID   string  `json:"chunk_id"`
	Text      string  `json:"text"`
	Filename  string  `json:"filename"`
	Caption   string  `json:"caption,omitempty"`
	Score     float64 `json:"score"`
	Tags      string  `json:"tags,omitempty"`
}

// MonitorFormPayload carries the terminal event of the application-status
// sub-pipeline.
type MonitorFormPayload struct {
	// Event is one of "user_not_authenticated", "show_answer_text",
	// "show_answer_list".
	Event string `json:"event"`

	// AnswerText holds the status answer for "show_answer_text" events.
	AnswerText string `json:"answer_text,omitempty"`

	// Applications holds the serialized candidate list for
	// "show_answer_list" events.
	Applications json.RawMessage `json:"applications,omitempty"`
}
