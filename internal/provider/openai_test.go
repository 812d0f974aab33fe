package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awjames6875/shipflow/internal/conf"
)

func chatServer(t *testing.T, content string, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if gotBody != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(gotBody))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}))
}

func TestOpenAIClient_WriteScript(t *testing.T) {
	var gotBody map[string]any
	srv := chatServer(t, `{"script":"Hello.","caption":"A caption #news","title":"Big story"}`, &gotBody)
	defer srv.Close()

	cfg := conf.OpenAI{BaseURL: srv.URL, APIKey: "sk-test"}
	cfg.SetDefaults()
	cfg.BaseURL = srv.URL

	script, err := NewOpenAIClient(cfg).WriteScript(context.Background(), "report text", 30)
	require.NoError(t, err)
	assert.Equal(t, "Hello.", script.Script)
	assert.Equal(t, "Big story", script.Title)

	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 1)
	prompt := messages[0].(map[string]any)["content"].(string)
	assert.Contains(t, prompt, "report text")
	assert.Contains(t, prompt, "30-second")
	assert.Contains(t, prompt, "no more than 100 words")
}

func TestOpenAIClient_WriteScript_FencedJSON(t *testing.T) {
	srv := chatServer(t, "```json\n{\"script\":\"Hi.\",\"caption\":\"c\",\"title\":\"t\"}\n```", nil)
	defer srv.Close()

	cfg := conf.OpenAI{BaseURL: srv.URL, APIKey: "sk-test"}
	cfg.SetDefaults()
	cfg.BaseURL = srv.URL

	script, err := NewOpenAIClient(cfg).WriteScript(context.Background(), "report", 15)
	require.NoError(t, err)
	assert.Equal(t, "Hi.", script.Script)
}

func TestOpenAIClient_WriteScript_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := conf.OpenAI{BaseURL: srv.URL, APIKey: "sk-test"}
	cfg.SetDefaults()
	cfg.BaseURL = srv.URL

	_, err := NewOpenAIClient(cfg).WriteScript(context.Background(), "report", 15)
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
}

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "plain json",
			content: `{"script":"One. Two. Three.","caption":"cap","title":"t"}`,
			want:    "One. Two. Three.",
		},
		{
			name:    "json fence",
			content: "```json\n{\"script\":\"S.\",\"caption\":\"c\",\"title\":\"t\"}\n```",
			want:    "S.",
		},
		{
			name:    "bare fence",
			content: "```\n{\"script\":\"S.\",\"caption\":\"c\",\"title\":\"t\"}\n```",
			want:    "S.",
		},
		{
			name:    "not json",
			content: "sorry, I cannot help with that",
			wantErr: true,
		},
		{
			name:    "empty script field",
			content: `{"caption":"c","title":"t"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScript(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Script)
		})
	}
}
