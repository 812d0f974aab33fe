package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/awjames6875/shipflow/internal/conf"
)

// Platforms supported by the publishing API.
var SupportedPlatforms = []string{
	"tiktok", "instagram", "youtube", "facebook",
	"pinterest", "twitter", "bluesky", "threads", "linkedin",
}

// IsSupportedPlatform reports whether the publisher knows the platform.
func IsSupportedPlatform(platform string) bool {
	platform = strings.ToLower(platform)
	for _, p := range SupportedPlatforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Post is one publish request for a single platform.
type Post struct {
	AccountID string
	Platform  string
	Text      string
	MediaURLs []string
	// Target carries the platform-specific options, keyed the way the
	// vendor expects them alongside targetType.
	Target map[string]any
}

// BlotatoClient uploads media and publishes posts to connected social
// accounts.
type BlotatoClient struct {
	cfg    conf.Blotato
	client *resty.Client
}

func NewBlotatoClient(cfg conf.Blotato) *BlotatoClient {
	return &BlotatoClient{
		cfg: cfg,
		client: newClient(cfg.BaseURL, cfg.TimeoutSeconds).
			SetHeader("blotato-api-key", cfg.APIKey),
	}
}

type mediaResponse struct {
	URL string `json:"url"`
}

// UploadMedia transfers a source video into vendor-hosted storage and
// returns the hosted URL to use in posts.
func (c *BlotatoClient) UploadMedia(ctx context.Context, videoURL string) (string, error) {
	if videoURL == "" {
		return "", &UpstreamError{
			Service: "blotato",
			Message: "video url is empty",
			Fix:     "ensure the video is fully generated before uploading",
		}
	}

	var out mediaResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"url": videoURL}).
		SetResult(&out).
		Post("/v2/media")
	if err != nil {
		return "", upstreamErr("blotato", err.Error(), 0, "")
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return "", &UpstreamError{
			Service:    "blotato",
			StatusCode: resp.StatusCode(),
			Message:    "authentication failed",
			Body:       resp.String(),
			Fix:        "check the api key at https://my.blotato.com/settings/api-keys",
		}
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", upstreamErr("blotato", "media upload failed", resp.StatusCode(), resp.String())
	}
	if out.URL == "" {
		return "", upstreamErr("blotato", "media upload returned empty url", resp.StatusCode(), resp.String())
	}
	return out.URL, nil
}

// Publish posts content to one platform and returns the raw vendor reply.
func (c *BlotatoClient) Publish(ctx context.Context, post Post) (json.RawMessage, error) {
	target := map[string]any{"targetType": post.Platform}
	for k, v := range post.Target {
		target[k] = v
	}

	payload := map[string]any{
		"post": map[string]any{
			"accountId": NormalizeAccountID(post.AccountID),
			"content": map[string]any{
				"text":      post.Text,
				"mediaUrls": post.MediaURLs,
				"platform":  post.Platform,
			},
			"target": target,
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/v2/posts")
	if err != nil {
		return nil, upstreamErr("blotato", err.Error(), 0, "")
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return nil, &UpstreamError{
			Service:    "blotato",
			StatusCode: resp.StatusCode(),
			Message:    "authentication failed for " + post.Platform + " post",
			Body:       resp.String(),
			Fix:        "check the api key",
		}
	case resp.StatusCode() == http.StatusBadRequest:
		return nil, &UpstreamError{
			Service:    "blotato",
			StatusCode: resp.StatusCode(),
			Message:    "failed to post to " + post.Platform,
			Body:       resp.String(),
			Fix:        badRequestFix(resp.String(), post.AccountID),
		}
	case resp.StatusCode() != http.StatusOK:
		return nil, upstreamErr("blotato", "failed to post to "+post.Platform, resp.StatusCode(), resp.String())
	}

	return json.RawMessage(resp.Body()), nil
}

// TestConnection uploads a known-good sample video to verify the api key
// works end to end.
func (c *BlotatoClient) TestConnection(ctx context.Context) error {
	const sampleURL = "https://database.blotato.io/storage/v1/object/public/public_media/" +
		"4ddd33eb-e811-4ab5-93e1-2cd0b7e8fb3f/videogen-4c61a730-7eb2-47e9-a3a3-524740a1b877.mp4"
	_, err := c.UploadMedia(ctx, sampleURL)
	return err
}

// NormalizeAccountID strips the dashboard's acc_ prefix; the posts API wants
// the bare numeric id.
func NormalizeAccountID(id string) string {
	return strings.TrimPrefix(id, "acc_")
}

// badRequestFix maps common vendor 400 replies onto actionable hints.
func badRequestFix(body, accountID string) string {
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, "wrong account id"):
		return "account id '" + accountID + "' is invalid, copy the correct id from the blotato dashboard"
	case strings.Contains(lower, "boardid"):
		return "pinterest requires a board id, get it from the blotato dashboard"
	case strings.Contains(lower, "pageid"):
		return "facebook requires a page id, get it from the blotato dashboard"
	case strings.Contains(lower, "url is empty"):
		return "media url is empty, ensure the video is fully generated before posting"
	default:
		return "check https://my.blotato.com/failed for details"
	}
}
