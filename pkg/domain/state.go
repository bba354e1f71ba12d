package domain

import "time"

// ExecutionStatus tells whether the workflow still waits for events.
type ExecutionStatus string

const (
	StatusIdle   ExecutionStatus = "idle"   // Not started
	StatusActive ExecutionStatus = "active" // Waiting on the current stage
	StatusReady  ExecutionStatus = "ready"  // Terminal stage reached
)

// State is a snapshot of a calibration session.
type State struct {
	SessionID string          `json:"session_id"`
	Stage     Stage           `json:"stage"`
	Status    ExecutionStatus `json:"status"`

	// History lists every stage entered, in order.
	History []Stage `json:"history"`

	// EnteredAt is when the current stage was entered.
	EnteredAt time.Time `json:"entered_at"`

	// Pulses counts grid pulses triggered by placement.
	Pulses int `json:"pulses"`
}

// NewState creates an idle session positioned before the first stage.
func NewState(sessionID string) *State {
	return &State{
		SessionID: sessionID,
		Stage:     StageAwaitBackCamera,
		Status:    StatusIdle,
		History:   []Stage{},
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	c.History = append([]Stage(nil), s.History...)
	return &c
}
