package conf

import "strings"

// Providers groups the external service configurations.
type Providers struct {
	Perplexity Perplexity
	OpenAI     OpenAI
	HeyGen     HeyGen
	Blotato    Blotato
}

func (p *Providers) SetDefaults() {
	p.Perplexity.SetDefaults()
	p.OpenAI.SetDefaults()
	p.HeyGen.SetDefaults()
	p.Blotato.SetDefaults()
}

// Perplexity configures the research provider.
type Perplexity struct {
	BaseURL        string
	APIKey         string
	Model          string
	SearchRecency  string
	TimeoutSeconds int
}

func (c *Perplexity) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.perplexity.ai"
	}
	if c.Model == "" {
		c.Model = "sonar-pro"
	}
	if c.SearchRecency == "" {
		c.SearchRecency = "day"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 120
	}
}

// OpenAI configures the script writer provider.
type OpenAI struct {
	BaseURL        string
	APIKey         string
	Model          string
	Temperature    float64
	TimeoutSeconds int
}

func (c *OpenAI) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4o"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.7
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 120
	}
}

// Avatar type values accepted by the video renderer.
const (
	AvatarTypeTalkingPhoto = "talking_photo"
	AvatarTypeAvatar       = "avatar"
)

// HeyGen configures the avatar video renderer.
type HeyGen struct {
	BaseURL string
	APIKey  string

	// AvatarType selects between a talking photo and a studio avatar.
	AvatarType     string
	TalkingPhotoID string
	AvatarID       string

	VoiceID      string
	VoiceSpeed   float64
	VoiceEmotion string

	// Caption burns subtitles into the rendered video.
	Caption bool
	// BackgroundVideoURL plays behind studio avatars; talking photos
	// ignore it.
	BackgroundVideoURL string

	Width  int
	Height int

	PollIntervalSeconds int
	PollMaxAttempts     int
	// AcceptEmptyVideoURL accepts a completed render whose video URL is
	// still empty instead of treating it as transient.
	AcceptEmptyVideoURL bool

	TimeoutSeconds int
}

func (c *HeyGen) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.heygen.com"
	}
	if c.AvatarType == "" {
		c.AvatarType = AvatarTypeTalkingPhoto
	}
	if c.VoiceSpeed == 0 {
		c.VoiceSpeed = 1.0
	}
	// 9:16 portrait, the short-form default
	if c.Width == 0 {
		c.Width = 720
	}
	if c.Height == 0 {
		c.Height = 1280
	}
	if c.PollIntervalSeconds == 0 {
		c.PollIntervalSeconds = 20
	}
	if c.PollMaxAttempts == 0 {
		c.PollMaxAttempts = 60
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 60
	}
}

// Blotato configures the social publishing provider.
type Blotato struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int

	// Accounts maps platform name to its connected account.
	Accounts map[string]Account
}

// Account is a connected social account plus its platform-specific ids and
// options.
type Account struct {
	ID string

	// PageID is required for facebook.
	PageID string
	// BoardID is required for pinterest.
	BoardID string

	// PrivacyLevel applies to tiktok (e.g. PUBLIC_TO_EVERYONE).
	PrivacyLevel string
	// PrivacyStatus applies to youtube (public, unlisted, private).
	PrivacyStatus string
}

func (c *Blotato) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://backend.blotato.com"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 120
	}
	if c.Accounts == nil {
		c.Accounts = map[string]Account{}
	}
}

// AccountFor returns the account configured for platform, if any.
// Platform names are matched case-insensitively.
func (c *Blotato) AccountFor(platform string) (Account, bool) {
	acc, ok := c.Accounts[strings.ToLower(platform)]
	return acc, ok
}
