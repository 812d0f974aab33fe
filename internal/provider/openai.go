package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/awjames6875/shipflow/internal/conf"
)

// Script is the structured output of the script writing step.
type Script struct {
	Script  string `json:"script"`
	Caption string `json:"caption"`
	Title   string `json:"title"`
}

// OpenAIClient writes short-form video scripts via the OpenAI chat
// completions API.
type OpenAIClient struct {
	cfg    conf.OpenAI
	client *resty.Client
}

func NewOpenAIClient(cfg conf.OpenAI) *OpenAIClient {
	return &OpenAIClient{
		cfg: cfg,
		client: newClient(cfg.BaseURL, cfg.TimeoutSeconds).
			SetAuthToken(cfg.APIKey),
	}
}

const scriptWriterPrompt = `# TASK
1. Analyze the following viral news story:
<news>
%s
</news>

2. Write a conversational monologue script for a %d-second AI avatar video, following these guidelines:
   - CRITICAL: The script MUST be EXACTLY 3 sentences and no more than %d words total.
   - Use 6th grade reading level.
   - Balanced viewpoint.
   - First sentence should create an irresistible curiosity gap to hook viewers.
   - The third sentence MUST be: "Hit follow to stay up to date!"
   - ONLY output the exact video script. Do not output anything else. NEVER include intermediate thoughts, notes, or formatting.

3. Write an SEO-optimized caption that will accompany the video, max 5 hashtags.

4. Write 1 viral sentence, max 8 words, summarizing the content, use 6th grade language, balanced neutral perspective, no emojis, no punctuation except ` + "`?` or `!`" + `.

# OUTPUT

You will output structured JSON in the following format:
{
  "script": "Monologue script to be spoken by AI avatar",
  "caption": "Long SEO-optimized video caption",
  "title": "Short video title"
}`

type openAIRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

// WriteScript turns a research report into a script, caption and title.
// The word budget scales with the requested video length at roughly three
// spoken words per second.
func (c *OpenAIClient) WriteScript(ctx context.Context, newsReport string, lengthSeconds int) (Script, error) {
	if lengthSeconds <= 0 {
		lengthSeconds = 15
	}
	maxWords := lengthSeconds * 10 / 3

	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(openAIRequest{
			Model:       c.cfg.Model,
			Messages:    []chatMessage{{Role: "user", Content: fmt.Sprintf(scriptWriterPrompt, newsReport, lengthSeconds, maxWords)}},
			Temperature: c.cfg.Temperature,
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return Script{}, upstreamErr("openai", err.Error(), 0, "")
	}
	if resp.StatusCode() != http.StatusOK {
		return Script{}, upstreamErr("openai", "chat completion failed", resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 {
		return Script{}, upstreamErr("openai", "response contains no choices", resp.StatusCode(), resp.String())
	}

	script, err := ParseScript(out.Choices[0].Message.Content)
	if err != nil {
		return Script{}, errors.Wrap(err, "parse script output")
	}
	return script, nil
}

// ParseScript decodes the model output, tolerating markdown code fences
// around the JSON body.
func ParseScript(content string) (Script, error) {
	content = stripCodeFence(content)

	var s Script
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		return Script{}, errors.Wrapf(err, "invalid script json: %.120s", content)
	}
	if s.Script == "" {
		return Script{}, errors.New("script field is empty")
	}
	return s, nil
}

func stripCodeFence(content string) string {
	if idx := strings.Index(content, "```json"); idx >= 0 {
		content = content[idx+len("```json"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	} else if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+len("```"):]
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
	}
	return strings.TrimSpace(content)
}
