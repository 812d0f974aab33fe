package workflow

import (
	"context"
	"strings"
	"sync"

	"github.com/awjames6875/shipflow/internal/conf"
	"github.com/awjames6875/shipflow/internal/provider"
	"github.com/awjames6875/shipflow/pkg/log"
)

// publishFanout uploads the rendered video once, then posts to every
// platform concurrently. Each target gets its own slot in the result slice,
// so one failing platform can never touch another's outcome. Fan-out errors
// never fail the run.
func (o *Orchestrator) publishFanout(ctx context.Context, run *Run, script provider.Script, videoURL string) []TargetResult {
	results := make([]TargetResult, len(run.Platforms))
	for i, platform := range run.Platforms {
		results[i] = TargetResult{Platform: strings.ToLower(platform)}
	}

	mediaURL, err := o.uploadMedia(ctx, videoURL)
	if err != nil {
		log.Errorw("media upload failed", "run", run.ID, "err", err)
		for i := range results {
			results[i].Status = StepFailed
			results[i].Message = "media upload failed: " + err.Error()
			publishTotal.WithLabelValues(results[i].Platform, string(StepFailed)).Inc()
		}
		return results
	}

	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = o.publishOne(ctx, run, results[i].Platform, script, mediaURL)
			publishTotal.WithLabelValues(results[i].Platform, string(results[i].Status)).Inc()
		}(i)
	}
	wg.Wait()

	return results
}

func (o *Orchestrator) uploadMedia(ctx context.Context, videoURL string) (string, error) {
	if err := o.limits.Wait(ctx, OpUploadMedia); err != nil {
		return "", err
	}
	return o.publisher.UploadMedia(ctx, videoURL)
}

func (o *Orchestrator) publishOne(ctx context.Context, run *Run, platform string, script provider.Script, mediaURL string) TargetResult {
	result := TargetResult{Platform: platform}

	account, ok := o.cfg.Accounts[platform]
	if !ok || account.ID == "" {
		result.Status = StepFailed
		result.Message = "no account configured for " + platform
		return result
	}

	target, err := buildTarget(platform, account, script.Title)
	if err != nil {
		result.Status = StepFailed
		result.Message = err.Error()
		return result
	}

	if err := o.limits.Wait(ctx, OpPublishPost); err != nil {
		result.Status = StepFailed
		result.Message = err.Error()
		return result
	}

	resp, err := o.publisher.Publish(ctx, provider.Post{
		AccountID: account.ID,
		Platform:  platform,
		Text:      script.Caption,
		MediaURLs: []string{mediaURL},
		Target:    target,
	})
	if err != nil {
		log.Errorw("publish failed", "run", run.ID, "platform", platform, "err", err)
		result.Status = StepFailed
		result.Message = err.Error()
		return result
	}

	log.Infow("published", "run", run.ID, "platform", platform)
	result.Status = StepCompleted
	result.Response = string(resp)
	return result
}

// buildTarget assembles the platform-specific target options and checks the
// fields each platform requires.
func buildTarget(platform string, account conf.Account, title string) (map[string]any, error) {
	switch platform {
	case "tiktok":
		privacy := account.PrivacyLevel
		if privacy == "" {
			privacy = "PUBLIC_TO_EVERYONE"
		}
		return map[string]any{
			"isAiGenerated":    true,
			"privacyLevel":     privacy,
			"disabledComments": false,
			"disabledDuet":     false,
			"disabledStitch":   false,
			"isBrandedContent": false,
			"isYourBrand":      false,
		}, nil
	case "youtube":
		if title == "" {
			return nil, configErr("title", "youtube requires a video title")
		}
		privacy := account.PrivacyStatus
		if privacy == "" {
			privacy = "public"
		}
		return map[string]any{
			"title":                   title,
			"containsSyntheticMedia":  true,
			"privacyStatus":           privacy,
			"shouldNotifySubscribers": true,
		}, nil
	case "facebook":
		if account.PageID == "" {
			return nil, configErr("pageId", "facebook requires a page id")
		}
		return map[string]any{"pageId": account.PageID}, nil
	case "pinterest":
		if account.BoardID == "" {
			return nil, configErr("boardId", "pinterest requires a board id")
		}
		return map[string]any{"boardId": account.BoardID}, nil
	default:
		return map[string]any{}, nil
	}
}
