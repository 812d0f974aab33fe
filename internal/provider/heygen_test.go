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
	"github.com/awjames6875/shipflow/pkg/poller"
)

func heygenConf(baseURL string) conf.HeyGen {
	cfg := conf.HeyGen{
		APIKey:         "hg-test",
		AvatarType:     conf.AvatarTypeTalkingPhoto,
		TalkingPhotoID: "0123456789abcdef0123456789abcdef",
		VoiceID:        "v-1",
	}
	cfg.SetDefaults()
	cfg.BaseURL = baseURL
	return cfg
}

func TestHeyGenClient_Create(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/video/generate", r.URL.Path)
		assert.Equal(t, "hg-test", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"video_id": "vid-123"},
		})
	}))
	defer srv.Close()

	id, err := NewHeyGenClient(heygenConf(srv.URL)).Create(context.Background(), "script text", "title")
	require.NoError(t, err)
	assert.Equal(t, "vid-123", id)

	inputs := gotBody["video_inputs"].([]any)
	require.Len(t, inputs, 1)
	character := inputs[0].(map[string]any)["character"].(map[string]any)
	assert.Equal(t, "talking_photo", character["type"])
	assert.Equal(t, "0123456789abcdef0123456789abcdef", character["talking_photo_id"])

	dimension := gotBody["dimension"].(map[string]any)
	assert.Equal(t, float64(720), dimension["width"])
	assert.Equal(t, float64(1280), dimension["height"])
	assert.Equal(t, "9:16", gotBody["aspect_ratio"])
}

func TestHeyGenClient_Create_AvatarCharacter(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"video_id": "vid-456"},
		})
	}))
	defer srv.Close()

	cfg := heygenConf(srv.URL)
	cfg.AvatarType = conf.AvatarTypeAvatar
	cfg.AvatarID = "Abigail_expressive"
	cfg.BackgroundVideoURL = "https://cdn.example.com/bg.mp4"
	cfg.Caption = true

	_, err := NewHeyGenClient(cfg).Create(context.Background(), "script", "title")
	require.NoError(t, err)

	input := gotBody["video_inputs"].([]any)[0].(map[string]any)
	character := input["character"].(map[string]any)
	assert.Equal(t, "avatar", character["type"])
	assert.Equal(t, "Abigail_expressive", character["avatar_id"])
	assert.Equal(t, "normal", character["avatar_style"])

	background := input["background"].(map[string]any)
	assert.Equal(t, "video", background["type"])
	assert.Equal(t, "https://cdn.example.com/bg.mp4", background["url"])
	assert.Equal(t, true, gotBody["caption"])
}

func TestHeyGenClient_Create_TalkingPhotoIgnoresBackground(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"video_id": "vid-789"},
		})
	}))
	defer srv.Close()

	cfg := heygenConf(srv.URL)
	cfg.BackgroundVideoURL = "https://cdn.example.com/bg.mp4"

	_, err := NewHeyGenClient(cfg).Create(context.Background(), "script", "title")
	require.NoError(t, err)

	input := gotBody["video_inputs"].([]any)[0].(map[string]any)
	_, hasBackground := input["background"]
	assert.False(t, hasBackground)
}

func TestHeyGenClient_VideoStatus(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]any
		want     poller.State
		artifact string
	}{
		{
			name:     "completed prefers captioned url",
			data:     map[string]any{"status": "completed", "video_url": "plain.mp4", "video_url_caption": "caption.mp4"},
			want:     poller.StateCompleted,
			artifact: "caption.mp4",
		},
		{
			name:     "completed plain url",
			data:     map[string]any{"status": "completed", "video_url": "plain.mp4"},
			want:     poller.StateCompleted,
			artifact: "plain.mp4",
		},
		{
			name: "completed without url",
			data: map[string]any{"status": "completed"},
			want: poller.StateCompleted,
		},
		{
			name: "processing",
			data: map[string]any{"status": "processing"},
			want: poller.StateProcessing,
		},
		{
			name: "pending",
			data: map[string]any{"status": "pending"},
			want: poller.StatePending,
		},
		{
			name: "failed",
			data: map[string]any{"status": "failed", "error": map[string]any{"message": "bad input"}},
			want: poller.StateFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/video_status.get", r.URL.Path)
				assert.Equal(t, "vid-1", r.URL.Query().Get("video_id"))
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{"data": tt.data})
			}))
			defer srv.Close()

			status, err := NewHeyGenClient(heygenConf(srv.URL)).VideoStatus(context.Background(), "vid-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status.State)
			assert.Equal(t, tt.artifact, status.Artifact)
			if tt.want == poller.StateFailed {
				assert.NotEmpty(t, status.Reason)
			}
		})
	}
}

func TestHeyGenClient_VerifyTalkingPhoto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "known-id"}},
		})
	}))
	defer srv.Close()

	client := NewHeyGenClient(heygenConf(srv.URL))

	exists, err := client.VerifyTalkingPhoto(context.Background(), "known-id")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.VerifyTalkingPhoto(context.Background(), "unknown-id")
	require.NoError(t, err)
	assert.False(t, exists)
}
