package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongxu0218/petcare/internal/domain/entities"
	"github.com/hongxu0218/petcare/internal/infrastructure/config"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LLMConfig
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid config",
			cfg:  config.LLMConfig{APIKey: "test-key"},
		},
		{
			name: "valid config with model",
			cfg:  config.LLMConfig{APIKey: "test-key", Model: "gpt-4"},
		},
		{
			name: "local server without key",
			cfg:  config.LLMConfig{BaseURL: "http://localhost:11434/v1"},
		},
		{
			name:    "missing API key",
			cfg:     config.LLMConfig{},
			wantErr: true,
			errMsg:  "API key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, client)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestBuildReferences(t *testing.T) {
	tests := []struct {
		name string
		refs []entities.FAQEntry
		want string
	}{
		{
			name: "none",
			want: "(none)",
		},
		{
			name: "with and without category",
			refs: []entities.FAQEntry{
				{Question: " Do you board cats? ", Answer: "Yes, in a separate room.", Category: "boarding"},
				{Question: "營業時間?", Answer: "週一至週六 9:00-18:00"},
			},
			want: "[1] (boarding) Q: Do you board cats?\nA: Yes, in a separate room.\n" +
				"[2] Q: 營業時間?\nA: 週一至週六 9:00-18:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildReferences(tt.refs))
		})
	}
}

func TestBuildMessages(t *testing.T) {
	refs := []entities.FAQEntry{{Question: "Q1", Answer: "A1"}}

	msgs := buildMessages("Is parking available?", refs)

	require.Len(t, msgs, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "[1] Q: Q1\nA: A1")
	assert.Equal(t, openai.ChatMessageRoleUser, msgs[1].Role)
	assert.Equal(t, "Is parking available?", msgs[1].Content)
}

func TestClient_Answer(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  gotReq.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "  Yes, we board cats.\n"},
				"finish_reason": "stop",
			}},
		})
	}))
	defer srv.Close()

	client, err := NewClient(config.LLMConfig{BaseURL: srv.URL + "/v1", Model: "local-model", MaxTokens: 128})
	require.NoError(t, err)

	answer, err := client.Answer(context.Background(), "Do you board cats?", []entities.FAQEntry{
		{Question: "Do you board cats?", Answer: "Yes."},
	})
	require.NoError(t, err)
	assert.Equal(t, "Yes, we board cats.", answer)
	assert.Equal(t, "local-model", gotReq.Model)
	assert.Equal(t, 128, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "Do you board cats?", gotReq.Messages[1].Content)
}

func TestClient_Answer_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	client, err := NewClient(config.LLMConfig{BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = client.Answer(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response from OpenAI")
}
