package orchestrator

import (
	"strings"

	"github.com/opencitizen/welfare-assistant/apimodels"
	"github.com/opencitizen/welfare-assistant/internal/llm"
	"github.com/opencitizen/welfare-assistant/internal/metadata"
)

// renderPrompt validates and assembles a prompt definition. Every required
// parameter must appear literally as a {name} placeholder somewhere in the
// message templates; a missing placeholder fails fast with invalidStatus
// instead of sending a malformed prompt to the model.
func renderPrompt(cfg *metadata.PromptConfig, vars map[string]string, invalidStatus int) (llm.Prompt, error) {
	var joined strings.Builder
	for _, msg := range cfg.Messages {
		joined.WriteString(msg.Content)
		joined.WriteString("\n")
	}
	templates := joined.String()
	for _, name := range cfg.RequiredParameters {
		if !strings.Contains(templates, "{"+name+"}") {
			return llm.Prompt{}, newConfigError(invalidStatus,
				"prompt %q is missing required placeholder {%s}", cfg.ID, name)
		}
	}

	var system, user []string
	for _, msg := range cfg.Messages {
		content := msg.Content
		for name, value := range vars {
			content = strings.ReplaceAll(content, "{"+name+"}", value)
		}
		if msg.Role == "system" {
			system = append(system, content)
		} else {
			user = append(user, content)
		}
	}

	return llm.Prompt{
		System: strings.Join(system, "\n"),
		User:   strings.Join(user, "\n"),
		Params: llm.ModelParameters{
			Model:       cfg.LlmModel,
			TopP:        cfg.ModelParameters.TopP,
			Temperature: cfg.ModelParameters.Temperature,
			MaxTokens:   cfg.ModelParameters.MaxTokens,
			Stop:        cfg.ModelParameters.Stop,
		},
	}, nil
}

// formatHistory renders prior turns for the {chat_history} placeholder.
func formatHistory(interactions []apimodels.Interaction) string {
	if len(interactions) == 0 {
		return "nessuna conversazione precedente"
	}
	var b strings.Builder
	for _, turn := range interactions {
		b.WriteString("Utente: ")
		b.WriteString(turn.Question)
		b.WriteString("\nAssistente: ")
		b.WriteString(turn.Answer)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
