package apimodels

// QueryRequest is a single user question submitted to the orchestration
// pipeline. It is immutable for the duration of one run; the pipeline carries
// any rewritten question alongside it instead of mutating it in place.
type QueryRequest struct {
	// Query is the raw natural-language question.
	Query string `json:"query"`

	// CardText is optional supplementary text (e.g. from a UI card the user
	// tapped) appended to the question during normalization.
	CardText string `json:"card_text,omitempty"`

	// LlmModelID selects which LLM backend family answers the question.
	LlmModelID string `json:"llm_model_id"`

	// Tags scope which documents, curated-QA project and feature flags apply.
	// The first tag names the topic.
	Tags []string `json:"tags"`

	// Interactions are the prior conversation turns, oldest first.
	Interactions []Interaction `json:"interactions,omitempty"`

	// Environment selects the staging or production document index.
	Environment string `json:"environment"`

	// PromptRefs pin the versioned prompt definitions to use for this run.
	PromptRefs []PromptRef `json:"prompt_refs,omitempty"`

	// Token is the user's identity token, present only for authenticated calls.
	Token string `json:"token,omitempty"`

	// UserFiscalCode identifies the citizen for application-status lookups.
	UserFiscalCode string `json:"user_fiscal_code,omitempty"`
}

// Interaction is one prior question/answer turn.
type Interaction struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// PromptRef names a prompt definition by type ("enrichment", "completion",
// "status_intent", "status_completion") and optionally pins a version.
type PromptRef struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Version string `json:"version,omitempty"`
}
