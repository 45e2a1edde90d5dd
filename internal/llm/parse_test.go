package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswer(t *testing.T) {
	payload, err := parseAnswer(`{"response":"L'assegno unico è...","references":[1,3]}`, "stop")
	require.NoError(t, err)

	assert.Equal(t, "L'assegno unico è...", payload.Response)
	assert.Equal(t, []int{1, 3}, payload.References)
	assert.Equal(t, "stop", payload.FinishReason)
}

func TestParseAnswerStripsCodeFences(t *testing.T) {
	content := "```json\n{\"response\":\"ok\",\"references\":[2]}\n```"
	payload, err := parseAnswer(content, "stop")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, payload.References)
}

func TestParseAnswerToleratesSurroundingProse(t *testing.T) {
	content := "Ecco la risposta:\n{\"response\":\"ok\",\"references\":[]}"
	payload, err := parseAnswer(content, "stop")
	require.NoError(t, err)
	assert.Equal(t, "ok", payload.Response)
	assert.Empty(t, payload.References)
}

func TestParseAnswerRejectsNonJSON(t *testing.T) {
	_, err := parseAnswer("non so rispondere", "stop")
	require.Error(t, err)
}

func TestParseEnrichment(t *testing.T) {
	payload, err := parseEnrichment(`{"standalone_question":"cos'è l'assegno unico?","end_conversation":false}`)
	require.NoError(t, err)
	assert.Equal(t, "cos'è l'assegno unico?", payload.StandaloneQuestion)
	assert.False(t, payload.EndConversation)
}

func TestParseEnrichmentTermination(t *testing.T) {
	payload, err := parseEnrichment(`{"standalone_question":"","end_conversation":true}`)
	require.NoError(t, err)
	assert.True(t, payload.EndConversation)
}

func TestParseIntent(t *testing.T) {
	intent, err := parseIntent(`{"intent":"application_status"}`)
	require.NoError(t, err)
	assert.Equal(t, "application_status", intent)
}

func TestParseIntentMissingField(t *testing.T) {
	_, err := parseIntent(`{"something":"else"}`)
	require.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	payload, err := parseStatus(`{"has_answer":true,"answer":"In lavorazione."}`)
	require.NoError(t, err)
	assert.True(t, payload.HasAnswer)
	assert.Equal(t, "In lavorazione.", payload.Answer)
}
