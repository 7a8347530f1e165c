package usecase

import (
	"errors"
	"fmt"
	"sync"
)

// WorkflowState is the explicit finite state machine behind each screen
// (create / mint / freeze / metadata / ownership). One submission flow walks
// the states strictly in order; the busy flag keeps a second mutation for
// the same workflow from starting while one is in flight.
type WorkflowState string

const (
	StateIdle              WorkflowState = "idle"
	StateLoading           WorkflowState = "loading"
	StateReady             WorkflowState = "ready"
	StateValidating        WorkflowState = "validating"
	StatePlanning          WorkflowState = "planning"
	StateSearching         WorkflowState = "searching"
	StateAwaitingSignature WorkflowState = "awaitingSignature"
	StateSubmitting        WorkflowState = "submitting"
	StateConfirmed         WorkflowState = "confirmed"
	StateFailed            WorkflowState = "failed"
)

var ErrWorkflowBusy = errors.New("workflow: submission already in flight")

// workflowTransitions lists the permitted edges.
var workflowTransitions = map[WorkflowState][]WorkflowState{
	StateIdle:              {StateLoading},
	StateLoading:           {StateReady, StateFailed},
	StateReady:             {StateValidating, StateSearching, StateLoading},
	StateValidating:        {StatePlanning, StateFailed},
	StateSearching:         {StateReady, StateFailed},
	StatePlanning:          {StateAwaitingSignature, StateFailed},
	StateAwaitingSignature: {StateSubmitting, StateFailed},
	StateSubmitting:        {StateConfirmed, StateFailed},
	StateConfirmed:         {StateLoading, StateReady},
	StateFailed:            {StateLoading, StateReady},
}

// Workflow tracks one screen's machine plus its busy flag.
type Workflow struct {
	mu    sync.Mutex
	state WorkflowState
	busy  bool
}

func NewWorkflow() *Workflow {
	return &Workflow{state: StateIdle}
}

// State returns the current state.
func (w *Workflow) State() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// transition moves along a permitted edge or reports the violation. An
// invalid transition is a programming error, surfaced loudly.
func (w *Workflow) transition(to WorkflowState) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, allowed := range workflowTransitions[w.state] {
		if allowed == to {
			w.state = to
			return nil
		}
	}
	return fmt.Errorf("workflow: illegal transition %s -> %s", w.state, to)
}

// acquire flips the busy flag for the duration of a submission flow.
func (w *Workflow) acquire() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return ErrWorkflowBusy
	}
	w.busy = true
	return nil
}

func (w *Workflow) release() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}

// Busy reports whether a submission is in flight.
func (w *Workflow) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}
