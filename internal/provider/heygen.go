package provider

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/awjames6875/shipflow/internal/conf"
	"github.com/awjames6875/shipflow/pkg/poller"
)

// HeyGenClient renders AI avatar videos. Rendering is asynchronous: Create
// returns a video id, VideoStatus reports its progress.
type HeyGenClient struct {
	cfg    conf.HeyGen
	client *resty.Client
}

func NewHeyGenClient(cfg conf.HeyGen) *HeyGenClient {
	return &HeyGenClient{
		cfg: cfg,
		client: newClient(cfg.BaseURL, cfg.TimeoutSeconds).
			SetHeader("X-Api-Key", cfg.APIKey),
	}
}

type heygenCharacter struct {
	Type           string  `json:"type"`
	TalkingPhotoID string  `json:"talking_photo_id,omitempty"`
	AvatarID       string  `json:"avatar_id,omitempty"`
	AvatarStyle    string  `json:"avatar_style,omitempty"`
	Scale          float64 `json:"scale,omitempty"`
}

type heygenVoice struct {
	Type      string  `json:"type"`
	InputText string  `json:"input_text"`
	VoiceID   string  `json:"voice_id"`
	Speed     float64 `json:"speed,omitempty"`
	Emotion   string  `json:"emotion,omitempty"`
}

type heygenBackground struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	PlayStyle string `json:"play_style,omitempty"`
}

type heygenVideoInput struct {
	Character  heygenCharacter   `json:"character"`
	Voice      heygenVoice       `json:"voice"`
	Background *heygenBackground `json:"background,omitempty"`
}

type heygenGenerateRequest struct {
	VideoInputs []heygenVideoInput `json:"video_inputs"`
	Dimension   heygenDimension    `json:"dimension"`
	AspectRatio string             `json:"aspect_ratio"`
	Caption     bool               `json:"caption"`
	Title       string             `json:"title"`
}

type heygenDimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type heygenGenerateResponse struct {
	Data struct {
		VideoID string `json:"video_id"`
	} `json:"data"`
}

// Create submits a render job and returns the vendor video id.
func (c *HeyGenClient) Create(ctx context.Context, script, title string) (string, error) {
	character := heygenCharacter{}
	var background *heygenBackground
	switch c.cfg.AvatarType {
	case conf.AvatarTypeAvatar:
		character.Type = "avatar"
		character.AvatarID = c.cfg.AvatarID
		character.AvatarStyle = "normal"
		character.Scale = 1.0
		// background video is only supported behind studio avatars
		if c.cfg.BackgroundVideoURL != "" {
			background = &heygenBackground{
				Type:      "video",
				URL:       c.cfg.BackgroundVideoURL,
				PlayStyle: "loop",
			}
		}
	default:
		// talking_photo uses a different id field than studio avatars
		character.Type = "talking_photo"
		character.TalkingPhotoID = c.cfg.TalkingPhotoID
	}

	var out heygenGenerateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(heygenGenerateRequest{
			VideoInputs: []heygenVideoInput{{
				Character: character,
				Voice: heygenVoice{
					Type:      "text",
					InputText: script,
					VoiceID:   c.cfg.VoiceID,
					Speed:     c.cfg.VoiceSpeed,
					Emotion:   c.cfg.VoiceEmotion,
				},
				Background: background,
			}},
			Dimension:   heygenDimension{Width: c.cfg.Width, Height: c.cfg.Height},
			AspectRatio: "9:16",
			Caption:     c.cfg.Caption,
			Title:       title,
		}).
		SetResult(&out).
		Post("/v2/video/generate")
	if err != nil {
		return "", upstreamErr("heygen", err.Error(), 0, "")
	}
	if resp.StatusCode() != http.StatusOK {
		return "", upstreamErr("heygen", "video generate failed", resp.StatusCode(), resp.String())
	}
	if out.Data.VideoID == "" {
		return "", upstreamErr("heygen", "response contains no video id", resp.StatusCode(), resp.String())
	}
	return out.Data.VideoID, nil
}

type heygenStatusResponse struct {
	Data struct {
		Status          string `json:"status"`
		VideoURL        string `json:"video_url"`
		VideoURLCaption string `json:"video_url_caption"`
		Error           any    `json:"error"`
	} `json:"data"`
}

// VideoStatus queries the render state of a video and maps it onto the
// normalized polling states. The captioned URL is preferred when present.
func (c *HeyGenClient) VideoStatus(ctx context.Context, videoID string) (poller.Status, error) {
	var out heygenStatusResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("video_id", videoID).
		SetResult(&out).
		Get("/v1/video_status.get")
	if err != nil {
		return poller.Status{}, upstreamErr("heygen", err.Error(), 0, "")
	}
	if resp.StatusCode() != http.StatusOK {
		return poller.Status{}, upstreamErr("heygen", "video status query failed", resp.StatusCode(), resp.String())
	}

	url := out.Data.VideoURLCaption
	if url == "" {
		url = out.Data.VideoURL
	}

	switch out.Data.Status {
	case "completed":
		return poller.Status{State: poller.StateCompleted, Artifact: url}, nil
	case "failed":
		reason := "video generation failed"
		if out.Data.Error != nil {
			reason = resp.String()
		}
		return poller.Status{State: poller.StateFailed, Reason: reason}, nil
	case "pending", "waiting":
		return poller.Status{State: poller.StatePending}, nil
	default:
		return poller.Status{State: poller.StateProcessing}, nil
	}
}

// TalkingPhoto is one photo avatar from the account.
type TalkingPhoto struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	IsPreset bool   `json:"is_preset"`
}

type heygenTalkingPhotoList struct {
	Data []TalkingPhoto `json:"data"`
}

// ListTalkingPhotos returns the photo avatars available to the account.
func (c *HeyGenClient) ListTalkingPhotos(ctx context.Context) ([]TalkingPhoto, error) {
	var out heygenTalkingPhotoList
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v1/talking_photo.list")
	if err != nil {
		return nil, upstreamErr("heygen", err.Error(), 0, "")
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, upstreamErr("heygen", "talking photo list failed", resp.StatusCode(), resp.String())
	}
	return out.Data, nil
}

// VerifyTalkingPhoto reports whether a talking photo id exists in the
// account. Used by startup validation.
func (c *HeyGenClient) VerifyTalkingPhoto(ctx context.Context, id string) (bool, error) {
	photos, err := c.ListTalkingPhotos(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range photos {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type heygenAvatarList struct {
	Data struct {
		Avatars []struct {
			AvatarID string `json:"avatar_id"`
		} `json:"avatars"`
	} `json:"data"`
}

// VerifyAvatar reports whether an avatar id exists in the account.
func (c *HeyGenClient) VerifyAvatar(ctx context.Context, id string) (bool, error) {
	var out heygenAvatarList
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/v2/avatars")
	if err != nil {
		return false, upstreamErr("heygen", err.Error(), 0, "")
	}
	if resp.StatusCode() != http.StatusOK {
		return false, upstreamErr("heygen", "avatar list failed", resp.StatusCode(), resp.String())
	}
	for _, a := range out.Data.Avatars {
		if a.AvatarID == id {
			return true, nil
		}
	}
	return false, nil
}
