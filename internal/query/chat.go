package query

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var _ Generator = (*ChatGenerator)(nil)

// errEmptyCompletion is returned when the endpoint answers without choices.
var errEmptyCompletion = errors.New("chat completion has no choices")

// ChatGenerator answers from the rendered prompt through an
// OpenAI-compatible chat completion endpoint (Gemini, OpenAI, Ollama).
// Requests are sent once; failed calls are not retried.
type ChatGenerator struct {
	client      openai.Client
	model       string
	temperature float64
}

func NewChatGenerator(baseURL, apiKey, model string, temperature float64) *ChatGenerator {
	return &ChatGenerator{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
		),
		model:       model,
		temperature: temperature,
	}
}

func (g *ChatGenerator) Model() string {
	return g.model
}

func (g *ChatGenerator) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if len(prompt.Context) == 0 {
		return NoAnswer, nil
	}

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt.Render()),
		},
		Temperature: openai.Float(g.temperature),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errEmptyCompletion
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
