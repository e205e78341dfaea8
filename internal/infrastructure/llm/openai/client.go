// Package openai provides an LLMClient implementation using OpenAI.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/hongxu0218/petcare/internal/domain/entities"
	"github.com/hongxu0218/petcare/internal/infrastructure/config"
)

const answerPrompt = `You are the assistant of a pet-care location directory. Answer the user's question using ONLY the reference Q&A pairs below.

If the references do not cover the question, say you do not know and suggest contacting the location directly.
Reply in the language of the question. Keep the answer short and practical.

References:
%s`

// Client implements the LLMClient interface using OpenAI.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewClient creates a new OpenAI LLM client. The API key may be omitted when a
// base URL points at a local OpenAI-compatible server.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := openai.GPT4oMini
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Answer asks the model to answer question from the given FAQ references.
func (c *Client) Answer(ctx context.Context, question string, references []entities.FAQEntry) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    buildMessages(question, references),
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildMessages(question string, references []entities.FAQEntry) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: fmt.Sprintf(answerPrompt, buildReferences(references)),
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: question,
		},
	}
}

// buildReferences renders references as a numbered list, e.g.
//
//	[1] (grooming) Q: ... / A: ...
func buildReferences(references []entities.FAQEntry) string {
	if len(references) == 0 {
		return "(none)"
	}

	var b strings.Builder
	for i, ref := range references {
		fmt.Fprintf(&b, "[%d] ", i+1)
		if ref.Category != "" {
			fmt.Fprintf(&b, "(%s) ", ref.Category)
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", strings.TrimSpace(ref.Question), strings.TrimSpace(ref.Answer))
	}
	return strings.TrimRight(b.String(), "\n")
}
