package workflow

import (
	"time"

	"github.com/awjames6875/shipflow/pkg/id"
	"github.com/awjames6875/shipflow/pkg/statemachine"
)

// RunStatus is the overall state of a workflow run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// StepStatus is the state of a single pipeline step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	// StepManualRequired marks a step whose vendor job may still finish
	// upstream; the job id in the step artifact allows manual recovery.
	StepManualRequired StepStatus = "manual_required"
)

// Pipeline step names, in execution order.
const (
	StepResearchTopic  = "research-topic"
	StepSelectBestItem = "select-best-item"
	StepWriteScript    = "write-script"
	StepCreateVideo    = "create-video"
	StepWaitForVideo   = "wait-for-video"
	StepPublishFanout  = "publish-fanout"
)

// StepOrder lists every pipeline step in execution order.
var StepOrder = []string{
	StepResearchTopic,
	StepSelectBestItem,
	StepWriteScript,
	StepCreateVideo,
	StepWaitForVideo,
	StepPublishFanout,
}

// TargetResult is the outcome of one publish target inside the fan-out step.
type TargetResult struct {
	Platform string     `json:"platform"`
	Status   StepStatus `json:"status"`
	Message  string     `json:"message,omitempty"`
	Response string     `json:"response,omitempty"`
}

// StepResult records the outcome of one pipeline step. Once a step reaches a
// terminal status its fields never change.
type StepResult struct {
	Name        string     `json:"name"`
	Status      StepStatus `json:"status"`
	Preview     string     `json:"preview,omitempty"`
	Artifact    string     `json:"artifact,omitempty"`
	Message     string     `json:"message,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Targets holds per-platform outcomes; only the fan-out step sets it.
	Targets []TargetResult `json:"targets,omitempty"`

	fsm *statemachine.StateMachine[StepStatus]
}

func newStepResult(name string) *StepResult {
	fsm := statemachine.New(StepPending)
	fsm.Allow(StepPending, StepRunning).
		Allow(StepRunning, StepCompleted, StepFailed, StepManualRequired)
	return &StepResult{
		Name:   name,
		Status: StepPending,
		fsm:    fsm,
	}
}

func (s *StepResult) start() error {
	if err := s.fsm.Transit(StepRunning); err != nil {
		return err
	}
	now := time.Now()
	s.Status = StepRunning
	s.StartedAt = &now
	return nil
}

func (s *StepResult) finish(status StepStatus) error {
	if err := s.fsm.Transit(status); err != nil {
		return err
	}
	now := time.Now()
	s.Status = status
	s.CompletedAt = &now
	return nil
}

// Run is the report of one workflow execution. It is returned once,
// complete or partial, and never mutated afterwards; re-running creates a
// new Run.
type Run struct {
	ID            string        `json:"id"`
	Topic         string        `json:"topic"`
	LengthSeconds int           `json:"length_seconds"`
	Platforms     []string      `json:"platforms"`
	Status        RunStatus     `json:"status"`
	Steps         []*StepResult `json:"steps"`
	// VideoJobID survives failures past the create-video step so a
	// timed-out render can be inspected out of band.
	VideoJobID  string     `json:"video_job_id,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	fsm *statemachine.StateMachine[RunStatus]
}

func newRun(in Input) *Run {
	fsm := statemachine.New(RunRunning)
	fsm.Allow(RunRunning, RunCompleted, RunFailed)

	steps := make([]*StepResult, 0, len(StepOrder))
	for _, name := range StepOrder {
		steps = append(steps, newStepResult(name))
	}

	return &Run{
		ID:            id.GetUUID(),
		Topic:         in.Topic,
		LengthSeconds: in.LengthSeconds,
		Platforms:     in.Platforms,
		Status:        RunRunning,
		Steps:         steps,
		StartedAt:     time.Now(),
		fsm:           fsm,
	}
}

func (r *Run) finish(status RunStatus) {
	if err := r.fsm.Transit(status); err != nil {
		return
	}
	now := time.Now()
	r.Status = status
	r.CompletedAt = &now
}

// Step returns the step result with the given name.
func (r *Run) Step(name string) *StepResult {
	for _, s := range r.Steps {
		if s.Name == name {
			return s
		}
	}
	return nil
}
