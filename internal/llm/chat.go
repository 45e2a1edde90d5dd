package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
)

// chatCompletion runs one system/user exchange and returns the reply content
// and finish reason. Both backend families speak the OpenAI chat protocol.
func chatCompletion(ctx context.Context, client *openai.Client, p Prompt) (string, string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.F(p.Params.Model),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		}),
		Temperature: openai.F(p.Params.Temperature),
	}
	if p.Params.TopP > 0 {
		params.TopP = openai.F(p.Params.TopP)
	}
	if p.Params.MaxTokens > 0 {
		params.MaxTokens = openai.F(p.Params.MaxTokens)
	}
	if len(p.Params.Stop) > 0 {
		params.Stop = openai.F[openai.ChatCompletionNewParamsStopUnion](
			openai.ChatCompletionNewParamsStopArray(p.Params.Stop))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", "", err
	}
	if len(resp.Choices) == 0 {
		return "", "", errors.New("no completion choices returned")
	}
	choice := resp.Choices[0]
	return choice.Message.Content, string(choice.FinishReason), nil
}
