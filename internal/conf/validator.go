package conf

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"
)

// CheckResult is the outcome of a single configuration check.
type CheckResult struct {
	Service string `json:"service"`
	Check   string `json:"check"`
	Passed  bool   `json:"passed"`
	Message string `json:"message,omitempty"`
	Fix     string `json:"fix,omitempty"`
}

// Report aggregates all configuration checks. The application refuses to
// start while any check fails.
type Report struct {
	Results []CheckResult `json:"results"`
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	for _, c := range r.Results {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Errors returns the failed checks.
func (r *Report) Errors() []CheckResult {
	var out []CheckResult
	for _, c := range r.Results {
		if !c.Passed {
			out = append(out, c)
		}
	}
	return out
}

// Warnings returns checks that passed but carry a message.
func (r *Report) Warnings() []CheckResult {
	var out []CheckResult
	for _, c := range r.Results {
		if c.Passed && c.Message != "" {
			out = append(out, c)
		}
	}
	return out
}

// String renders the report for startup logs.
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString("configuration validation report\n")
	for _, c := range r.Results {
		mark := "ok"
		if !c.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "  [%s] %s: %s", mark, c.Service, c.Check)
		if c.Message != "" {
			fmt.Fprintf(&b, " - %s", c.Message)
		}
		if c.Fix != "" {
			fmt.Fprintf(&b, " (fix: %s)", c.Fix)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Probes are optional live checks against the external services. Nil probes
// are skipped, so offline validation still works without network access.
type Probes struct {
	HeyGenTalkingPhoto func(ctx context.Context, id string) (bool, error)
	HeyGenAvatar       func(ctx context.Context, id string) (bool, error)
	BlotatoConnection  func(ctx context.Context) error
}

var hexID32 = regexp.MustCompile(`^[0-9a-f]{32}$`)

// Validate runs every configuration check and returns the full report. The
// four service validators are independent and run concurrently; live probes
// may each take a network round trip.
func Validate(ctx context.Context, p Providers, probes Probes) *Report {
	sections := make([][]CheckResult, 4)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { sections[0] = validatePerplexity(p.Perplexity); return nil })
	g.Go(func() error { sections[1] = validateOpenAI(p.OpenAI); return nil })
	g.Go(func() error { sections[2] = validateHeyGen(ctx, p.HeyGen, probes); return nil })
	g.Go(func() error { sections[3] = validateBlotato(ctx, p.Blotato, probes); return nil })
	_ = g.Wait()

	report := &Report{}
	for _, s := range sections {
		report.Results = append(report.Results, s...)
	}
	return report
}

func validatePerplexity(c Perplexity) []CheckResult {
	if c.APIKey == "" {
		return []CheckResult{{
			Service: "Perplexity",
			Check:   "API Key",
			Message: "perplexity api key is not set",
			Fix:     "set providers.perplexity.apikey in config.toml",
		}}
	}
	return []CheckResult{{Service: "Perplexity", Check: "API Key", Passed: true}}
}

func validateOpenAI(c OpenAI) []CheckResult {
	if c.APIKey == "" {
		return []CheckResult{{
			Service: "OpenAI",
			Check:   "API Key",
			Message: "openai api key is not set",
			Fix:     "set providers.openai.apikey in config.toml",
		}}
	}
	return []CheckResult{{Service: "OpenAI", Check: "API Key", Passed: true}}
}

func validateHeyGen(ctx context.Context, c HeyGen, probes Probes) []CheckResult {
	var results []CheckResult

	if c.APIKey == "" {
		return append(results, CheckResult{
			Service: "HeyGen",
			Check:   "API Key",
			Message: "heygen api key is not set",
			Fix:     "set providers.heygen.apikey in config.toml",
		})
	}
	results = append(results, CheckResult{Service: "HeyGen", Check: "API Key", Passed: true})

	if c.VoiceID == "" {
		results = append(results, CheckResult{
			Service: "HeyGen",
			Check:   "Voice ID",
			Message: "voice id is not set",
			Fix:     "set providers.heygen.voiceid in config.toml",
		})
	} else {
		results = append(results, CheckResult{Service: "HeyGen", Check: "Voice ID", Passed: true})
	}

	switch c.AvatarType {
	case AvatarTypeTalkingPhoto:
		if c.TalkingPhotoID == "" {
			results = append(results, CheckResult{
				Service: "HeyGen",
				Check:   "Talking Photo ID",
				Message: "avatar type is talking_photo but talking photo id is not set",
				Fix:     "get the id from GET /v1/talking_photo.list",
			})
			break
		}
		if !hexID32.MatchString(c.TalkingPhotoID) {
			results = append(results, CheckResult{
				Service: "HeyGen",
				Check:   "Talking Photo ID Format",
				Message: fmt.Sprintf("talking photo id %q is not 32 hex characters", c.TalkingPhotoID),
				Fix:     "get the id from GET /v1/talking_photo.list",
			})
			break
		}
		results = append(results, CheckResult{Service: "HeyGen", Check: "Talking Photo ID Format", Passed: true})
		if probes.HeyGenTalkingPhoto != nil {
			results = append(results, probeExists(ctx, "HeyGen", "Talking Photo Exists",
				c.TalkingPhotoID, probes.HeyGenTalkingPhoto,
				"run: curl -H 'X-Api-Key: YOUR_KEY' https://api.heygen.com/v1/talking_photo.list"))
		}
	case AvatarTypeAvatar:
		if c.AvatarID == "" {
			results = append(results, CheckResult{
				Service: "HeyGen",
				Check:   "Avatar ID",
				Message: "avatar type is avatar but avatar id is not set",
				Fix:     "get the id from GET /v2/avatars",
			})
			break
		}
		results = append(results, CheckResult{Service: "HeyGen", Check: "Avatar ID", Passed: true})
		if probes.HeyGenAvatar != nil {
			results = append(results, probeExists(ctx, "HeyGen", "Avatar Exists",
				c.AvatarID, probes.HeyGenAvatar,
				"run: curl -H 'X-Api-Key: YOUR_KEY' https://api.heygen.com/v2/avatars"))
		}
	default:
		results = append(results, CheckResult{
			Service: "HeyGen",
			Check:   "Avatar Type",
			Message: fmt.Sprintf("invalid avatar type %q", c.AvatarType),
			Fix:     "must be talking_photo or avatar",
		})
	}

	return results
}

func validateBlotato(ctx context.Context, c Blotato, probes Probes) []CheckResult {
	var results []CheckResult

	if c.APIKey == "" {
		return append(results, CheckResult{
			Service: "Blotato",
			Check:   "API Key",
			Message: "blotato api key is not set",
			Fix:     "get an api key from https://my.blotato.com/settings/api-keys",
		})
	}
	if !strings.HasPrefix(c.APIKey, "blt_") {
		return append(results, CheckResult{
			Service: "Blotato",
			Check:   "API Key Format",
			Message: "api key does not start with blt_",
			Fix:     "blotato api keys must start with 'blt_'",
		})
	}
	results = append(results, CheckResult{Service: "Blotato", Check: "API Key", Passed: true})

	if probes.BlotatoConnection != nil {
		if err := probes.BlotatoConnection(ctx); err != nil {
			results = append(results, CheckResult{
				Service: "Blotato",
				Check:   "API Connection",
				Message: err.Error(),
				Fix:     "check the api key is valid and not expired",
			})
		} else {
			results = append(results, CheckResult{Service: "Blotato", Check: "API Connection", Passed: true})
		}
	}

	// facebook posting needs both the account and a target page
	if acc, ok := c.AccountFor("facebook"); ok && acc.ID != "" && acc.PageID == "" {
		results = append(results, CheckResult{
			Service: "Blotato",
			Check:   "Facebook Page ID",
			Message: "facebook account is configured but page id is missing",
			Fix:     "facebook requires both an account id and a page id",
		})
	}

	// pinterest without a board is a warning: the platform gets skipped
	if acc, ok := c.AccountFor("pinterest"); ok && acc.ID != "" && acc.BoardID == "" {
		results = append(results, CheckResult{
			Service: "Blotato",
			Check:   "Pinterest Board ID",
			Passed:  true,
			Message: "pinterest board id missing, pinterest posting will be skipped",
			Fix:     "set the board id from the blotato dashboard",
		})
	}

	return results
}

func probeExists(ctx context.Context, service, check, id string, probe func(context.Context, string) (bool, error), fix string) CheckResult {
	exists, err := probe(ctx, id)
	if err != nil {
		return CheckResult{
			Service: service,
			Check:   check,
			Message: fmt.Sprintf("could not verify %q: %v", id, err),
			Fix:     "check the api key is valid",
		}
	}
	if !exists {
		return CheckResult{
			Service: service,
			Check:   check,
			Message: fmt.Sprintf("%q not found in your account", id),
			Fix:     fix,
		}
	}
	return CheckResult{Service: service, Check: check, Passed: true}
}
