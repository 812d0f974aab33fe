// Package workflow implements the content pipeline: research a topic, write
// a script, render an avatar video and publish it to social platforms. A run
// executes its steps strictly in order and reports per-step outcomes.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/awjames6875/shipflow/internal/conf"
	"github.com/awjames6875/shipflow/internal/provider"
	"github.com/awjames6875/shipflow/pkg/log"
	"github.com/awjames6875/shipflow/pkg/poller"
	"github.com/awjames6875/shipflow/pkg/ratelimit"
)

// Researcher answers research prompts with web-grounded text.
type Researcher interface {
	Research(ctx context.Context, prompt string) (string, error)
}

// ScriptWriter turns a research report into a script, caption and title
// sized for the requested video length.
type ScriptWriter interface {
	WriteScript(ctx context.Context, newsReport string, lengthSeconds int) (provider.Script, error)
}

// VideoRenderer starts an asynchronous render job and reports its status.
type VideoRenderer interface {
	Create(ctx context.Context, script, title string) (string, error)
	VideoStatus(ctx context.Context, videoID string) (poller.Status, error)
}

// MediaPublisher hosts media and publishes posts to social platforms.
type MediaPublisher interface {
	UploadMedia(ctx context.Context, videoURL string) (string, error)
	Publish(ctx context.Context, post provider.Post) (json.RawMessage, error)
}

// Rate limiter operation names shared across all concurrent runs.
const (
	OpUploadMedia = "upload_media"
	OpPublishPost = "publish_post"
)

// SupportedLengths are the accepted script lengths in seconds.
var SupportedLengths = []int{15, 30, 45, 60}

// Input describes one workflow run request.
type Input struct {
	Topic string `json:"topic"`
	// LengthSeconds is the target script length; zero means 15.
	LengthSeconds int `json:"length_seconds"`
	// Platforms are the publish targets for this run.
	Platforms []string `json:"platforms"`
}

// Config is the validated orchestrator configuration, fixed at
// construction.
type Config struct {
	// Accounts maps platform name to its connected publishing account.
	Accounts map[string]conf.Account
	// PollInterval and PollMaxAttempts bound the render wait.
	PollInterval    time.Duration
	PollMaxAttempts int
	// MaxRunDuration bounds a whole run; zero disables the bound.
	MaxRunDuration time.Duration
	// AcceptEmptyArtifact accepts a completed render with no video URL.
	AcceptEmptyArtifact bool
}

// Orchestrator executes workflow runs. It holds no mutable run state; every
// Execute call produces an independent Run.
type Orchestrator struct {
	researcher Researcher
	writer     ScriptWriter
	renderer   VideoRenderer
	publisher  MediaPublisher
	limits     *ratelimit.Registry
	cfg        Config
}

// NewOrchestrator wires the pipeline collaborators. limits may be shared
// with other orchestrators; nil gets a private registry.
func NewOrchestrator(r Researcher, w ScriptWriter, v VideoRenderer, p MediaPublisher, limits *ratelimit.Registry, cfg Config) *Orchestrator {
	if limits == nil {
		limits = ratelimit.NewRegistry()
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 20 * time.Second
	}
	if cfg.PollMaxAttempts == 0 {
		cfg.PollMaxAttempts = 60
	}
	return &Orchestrator{
		researcher: r,
		writer:     w,
		renderer:   v,
		publisher:  p,
		limits:     limits,
		cfg:        cfg,
	}
}

const topTenPrompt = `Research the top 10 trending news items in my industry from the past 24 hours.

- Industry: %s`

const selectStoryPrompt = `# INSTRUCTIONS

Complete the following tasks, in order:

1. Out of the 10 news stories listed below, select the ONE top news story that is most likely to go viral on social media. It should have broad appeal and contain something unique, controversial, or vitally important information that millions of people should know.

<news>
%s
</news>

2. Research more information about the top news story you selected.

3. Your final output should be a detailed report of the top story you've selected. It should be dense with factual data, statistics, sources, and key information based on your research. Include reasons why this story would perform well on social media. Include why a "normal person" in this industry should care about this news.`

// Execute runs the full pipeline and returns the run report. Invalid input
// fails before any external call with a *ConfigError and no report. After
// the first external call the report is always returned, partial when a step
// failed; only publish failures leave the run completed.
func (o *Orchestrator) Execute(ctx context.Context, in Input) (*Run, error) {
	if in.LengthSeconds == 0 {
		in.LengthSeconds = SupportedLengths[0]
	}
	if err := o.validate(in); err != nil {
		return nil, err
	}

	if o.cfg.MaxRunDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.MaxRunDuration)
		defer cancel()
	}

	run := newRun(in)
	log.Infow("workflow run started", "run", run.ID, "topic", in.Topic, "platforms", in.Platforms)

	var (
		topTen   string
		report   string
		script   provider.Script
		videoURL string
	)

	steps := []struct {
		name string
		fn   func(ctx context.Context, step *StepResult) error
	}{
		{StepResearchTopic, func(ctx context.Context, step *StepResult) error {
			out, err := o.researcher.Research(ctx, fmt.Sprintf(topTenPrompt, in.Topic))
			if err != nil {
				return err
			}
			topTen = out
			step.Preview = preview(out, 200)
			return nil
		}},
		{StepSelectBestItem, func(ctx context.Context, step *StepResult) error {
			out, err := o.researcher.Research(ctx, fmt.Sprintf(selectStoryPrompt, topTen))
			if err != nil {
				return err
			}
			report = out
			step.Preview = preview(out, 200)
			return nil
		}},
		{StepWriteScript, func(ctx context.Context, step *StepResult) error {
			out, err := o.writer.WriteScript(ctx, report, in.LengthSeconds)
			if err != nil {
				return err
			}
			script = out
			step.Preview = preview(out.Script, 100)
			step.Artifact = out.Title
			return nil
		}},
		{StepCreateVideo, func(ctx context.Context, step *StepResult) error {
			jobID, err := o.renderer.Create(ctx, script.Script, script.Title)
			if err != nil {
				return err
			}
			run.VideoJobID = jobID
			step.Artifact = jobID
			return nil
		}},
		{StepWaitForVideo, func(ctx context.Context, step *StepResult) error {
			status, err := poller.Wait(ctx, run.VideoJobID, o.renderer.VideoStatus,
				poller.WithInterval(o.cfg.PollInterval),
				poller.WithMaxAttempts(o.cfg.PollMaxAttempts),
				poller.WithAllowEmptyArtifact(o.cfg.AcceptEmptyArtifact),
				poller.WithObserver(func(attempt int, s poller.Status) {
					pollAttempts.Inc()
					log.Infow("render status", "run", run.ID, "job", run.VideoJobID,
						"state", s.State, "attempt", attempt)
				}))
			if err != nil {
				// keep the job id visible for out-of-band recovery
				step.Artifact = run.VideoJobID
				return err
			}
			videoURL = status.Artifact
			step.Artifact = videoURL
			return nil
		}},
		{StepPublishFanout, func(ctx context.Context, step *StepResult) error {
			step.Targets = o.publishFanout(ctx, run, script, videoURL)
			return nil
		}},
	}

	for _, s := range steps {
		if err := o.execStep(ctx, run, s.name, s.fn); err != nil {
			run.Error = err.Error()
			run.finish(RunFailed)
			runsTotal.WithLabelValues(string(RunFailed)).Inc()
			log.Errorw("workflow run failed", "run", run.ID, "step", s.name, "err", err)
			return run, nil
		}
	}

	run.finish(RunCompleted)
	runsTotal.WithLabelValues(string(RunCompleted)).Inc()
	log.Infow("workflow run completed", "run", run.ID)
	return run, nil
}

func (o *Orchestrator) validate(in Input) error {
	if in.Topic == "" {
		return configErr("topic", "must not be empty")
	}
	if len(in.Platforms) == 0 {
		return configErr("platforms", "at least one platform is required")
	}
	for _, p := range in.Platforms {
		if !provider.IsSupportedPlatform(p) {
			return configErr("platforms", "unsupported platform %q", p)
		}
	}
	ok := false
	for _, l := range SupportedLengths {
		if in.LengthSeconds == l {
			ok = true
			break
		}
	}
	if !ok {
		return configErr("length_seconds", "must be one of %v, got %d", SupportedLengths, in.LengthSeconds)
	}
	return nil
}

func (o *Orchestrator) execStep(ctx context.Context, run *Run, name string, fn func(context.Context, *StepResult) error) error {
	step := run.Step(name)
	if err := step.start(); err != nil {
		return errors.Wrapf(err, "start step %s", name)
	}
	log.Infow("step started", "run", run.ID, "step", name)

	start := time.Now()
	err := fn(ctx, step)
	stepDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		step.Message = err.Error()
		status := StepFailed
		var timeout *poller.TimeoutError
		if errors.As(err, &timeout) {
			status = StepManualRequired
		}
		_ = step.finish(status)
		return err
	}
	_ = step.finish(StepCompleted)
	log.Infow("step completed", "run", run.ID, "step", name)
	return nil
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
