package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// #region openai
// OpenAIClient is the remote provider implementation of Client.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client for the given API key and model.
// An empty model falls back to gpt-4o-mini.
func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is not set")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// Model implements Client.
func (o *OpenAIClient) Model() string {
	return o.model
}

// Complete implements Client via the chat completions API. Low temperature
// keeps answers close to the retrieved context.
func (o *OpenAIClient) Complete(ctx context.Context, p, system string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: p},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &ProviderError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Provider: "openai", Err: fmt.Errorf("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

// #endregion openai
