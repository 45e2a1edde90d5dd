package llm

import "strings"

// Registry holds the constructed backend handles and resolves a requested
// model identifier to one of them.
type Registry struct {
	openai  Backend
	mistral Backend
}

func NewRegistry(openaiBackend, mistralBackend Backend) *Registry {
	return &Registry{
		openai:  openaiBackend,
		mistral: mistralBackend,
	}
}

// ForModel maps a model identifier to a backend family. Identifiers starting
// with "mistral" select the Mistral-class backend; everything else, including
// unknown identifiers, selects the OpenAI-class backend.
//
// TODO: rejecting unknown identifiers instead of defaulting would surface
// client typos, but the default is kept for compatibility with existing
// callers.
func (r *Registry) ForModel(modelID string) Backend {
	if strings.HasPrefix(strings.ToLower(modelID), "mistral") {
		return r.mistral
	}
	return r.openai
}
