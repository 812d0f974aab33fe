package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runStatus string

const (
	runPending   runStatus = "pending"
	runRunning   runStatus = "running"
	runCompleted runStatus = "completed"
	runFailed    runStatus = "failed"
)

func TestStateMachine_Basic(t *testing.T) {
	sm := New(runPending)
	sm.Allow(runPending, runRunning).
		Allow(runRunning, runCompleted, runFailed)

	assert.Equal(t, runPending, sm.Current())
	assert.Equal(t, runPending, sm.Initial())

	require.NoError(t, sm.Transit(runRunning))
	require.NoError(t, sm.Transit(runCompleted))
	assert.Equal(t, runCompleted, sm.Current())
}

func TestStateMachine_InvalidTransition(t *testing.T) {
	sm := New(runPending)
	sm.Allow(runPending, runRunning).
		Allow(runRunning, runCompleted, runFailed)

	err := sm.Transit(runCompleted)
	require.Error(t, err)
	assert.Equal(t, runPending, sm.Current())
}

func TestStateMachine_TerminalStateIsFinal(t *testing.T) {
	sm := New(runPending)
	sm.Allow(runPending, runRunning).
		Allow(runRunning, runCompleted, runFailed)

	require.NoError(t, sm.Transit(runRunning))
	require.NoError(t, sm.Transit(runFailed))

	assert.Error(t, sm.Transit(runRunning))
	assert.Error(t, sm.Transit(runCompleted))
	assert.Equal(t, runFailed, sm.Current())
}

func TestStateMachine_CanTransition(t *testing.T) {
	sm := New(runPending)
	sm.Allow(runPending, runRunning)

	assert.True(t, sm.CanTransition(runPending, runRunning))
	assert.False(t, sm.CanTransition(runPending, runFailed))
	assert.False(t, sm.CanTransition(runCompleted, runRunning))
}

func TestStateMachine_History(t *testing.T) {
	sm := New(runPending)
	sm.Allow(runPending, runRunning).
		Allow(runRunning, runCompleted)

	require.NoError(t, sm.Transit(runRunning))
	require.NoError(t, sm.Transit(runCompleted))

	history := sm.History()
	require.Len(t, history, 2)
	assert.Equal(t, runPending, history[0].From)
	assert.Equal(t, runRunning, history[0].To)
	assert.Equal(t, runRunning, history[1].From)
	assert.Equal(t, runCompleted, history[1].To)

	sm.Reset()
	assert.Equal(t, runPending, sm.Current())
	assert.Empty(t, sm.History())
}
