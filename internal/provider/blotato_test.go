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

func blotatConf(baseURL string) conf.Blotato {
	cfg := conf.Blotato{APIKey: "blt_test"}
	cfg.SetDefaults()
	cfg.BaseURL = baseURL
	return cfg
}

func TestBlotatoClient_UploadMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/media", r.URL.Path)
		assert.Equal(t, "blt_test", r.Header.Get("blotato-api-key"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://cdn.example.com/v.mp4", body["url"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://media.blotato.com/hosted.mp4"})
	}))
	defer srv.Close()

	url, err := NewBlotatoClient(blotatConf(srv.URL)).UploadMedia(context.Background(), "https://cdn.example.com/v.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://media.blotato.com/hosted.mp4", url)
}

func TestBlotatoClient_UploadMedia_EmptySource(t *testing.T) {
	_, err := NewBlotatoClient(blotatConf("http://unused")).UploadMedia(context.Background(), "")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, upstream.Message, "empty")
}

func TestBlotatoClient_UploadMedia_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewBlotatoClient(blotatConf(srv.URL)).UploadMedia(context.Background(), "https://x/v.mp4")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	assert.NotEmpty(t, upstream.Fix)
}

func TestBlotatoClient_Publish(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/posts", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"postId": "p-1"})
	}))
	defer srv.Close()

	out, err := NewBlotatoClient(blotatConf(srv.URL)).Publish(context.Background(), Post{
		AccountID: "acc_1234",
		Platform:  "tiktok",
		Text:      "caption #ai",
		MediaURLs: []string{"https://media/hosted.mp4"},
		Target: map[string]any{
			"isAiGenerated": true,
			"privacyLevel":  "PUBLIC_TO_EVERYONE",
		},
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "p-1")

	post := gotBody["post"].(map[string]any)
	assert.Equal(t, "1234", post["accountId"], "acc_ prefix is stripped")

	content := post["content"].(map[string]any)
	assert.Equal(t, "tiktok", content["platform"])
	assert.Equal(t, "caption #ai", content["text"])

	target := post["target"].(map[string]any)
	assert.Equal(t, "tiktok", target["targetType"])
	assert.Equal(t, true, target["isAiGenerated"])
}

func TestBlotatoClient_Publish_BadRequestFixes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"wrong account", `{"error":"Wrong account ID"}`, "account id"},
		{"missing board", `{"error":"boardId is required"}`, "board id"},
		{"missing page", `{"error":"pageId is required"}`, "page id"},
		{"empty url", `{"error":"url is empty"}`, "media url"},
		{"unknown", `{"error":"something else"}`, "my.blotato.com/failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewBlotatoClient(blotatConf(srv.URL)).Publish(context.Background(), Post{
				AccountID: "1234",
				Platform:  "pinterest",
			})
			var upstream *UpstreamError
			require.ErrorAs(t, err, &upstream)
			assert.Contains(t, upstream.Fix, tt.want)
		})
	}
}

func TestNormalizeAccountID(t *testing.T) {
	assert.Equal(t, "1234", NormalizeAccountID("acc_1234"))
	assert.Equal(t, "1234", NormalizeAccountID("1234"))
}

func TestIsSupportedPlatform(t *testing.T) {
	assert.True(t, IsSupportedPlatform("tiktok"))
	assert.True(t, IsSupportedPlatform("TikTok"))
	assert.False(t, IsSupportedPlatform("myspace"))
}
