// Package statemachine provides a small generic finite state machine used to
// guard status transitions. A transition that was not registered with Allow
// is rejected, which keeps terminal states terminal.
package statemachine

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// TransitionRecord records a state transition in the FSM history.
type TransitionRecord[T comparable] struct {
	From      T
	To        T
	Timestamp time.Time
}

// StateMachine is a generic finite state machine. It is safe for concurrent
// use.
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	currentState T
	initialState T

	// from state -> list of valid next states
	validTransitions map[T][]T

	history        []TransitionRecord[T]
	maxHistorySize int
}

// New creates a new StateMachine with an initial state.
func New[T comparable](initialState T) *StateMachine[T] {
	return &StateMachine[T]{
		currentState:     initialState,
		initialState:     initialState,
		validTransitions: make(map[T][]T),
		maxHistorySize:   100,
	}
}

// Allow registers valid state transitions from a source state.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, target := range to {
		if !slices.Contains(sm.validTransitions[from], target) {
			sm.validTransitions[from] = append(sm.validTransitions[from], target)
		}
	}
	return sm
}

// CanTransition checks if a transition from one state to another is valid.
func (sm *StateMachine[T]) CanTransition(from, to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.validTransitions[from], to)
}

// Current returns the current state.
func (sm *StateMachine[T]) Current() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// Initial returns the initial state.
func (sm *StateMachine[T]) Initial() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.initialState
}

// Transit moves the machine to the given state. It fails if the transition
// was not registered with Allow.
func (sm *StateMachine[T]) Transit(to T) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	from := sm.currentState
	if !slices.Contains(sm.validTransitions[from], to) {
		return fmt.Errorf("invalid transition: %v -> %v", from, to)
	}

	sm.currentState = to
	sm.history = append(sm.history, TransitionRecord[T]{
		From:      from,
		To:        to,
		Timestamp: time.Now(),
	})
	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
	return nil
}

// History returns a copy of the transition history.
func (sm *StateMachine[T]) History() []TransitionRecord[T] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	result := make([]TransitionRecord[T], len(sm.history))
	copy(result, sm.history)
	return result
}

// Reset resets the machine to its initial state and clears history.
func (sm *StateMachine[T]) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.currentState = sm.initialState
	sm.history = nil
}
