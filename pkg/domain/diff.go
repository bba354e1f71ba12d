package domain

// StateDiff represents the changes between two session snapshots.
// It is serialized to JSON for incremental updates on the status endpoint.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Stage  *Stage           `json:"stage,omitempty"`
	Status *ExecutionStatus `json:"status,omitempty"`

	// Entered contains stages appended to the history. History is append-only.
	Entered []Stage `json:"entered,omitempty"`

	Pulses *int `json:"pulses,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState.
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{SessionID: newState.SessionID}

	if oldState == nil || oldState.Stage != newState.Stage {
		stage := newState.Stage
		diff.Stage = &stage
	}
	if oldState == nil || oldState.Status != newState.Status {
		status := newState.Status
		diff.Status = &status
	}
	if oldState == nil || oldState.Pulses != newState.Pulses {
		pulses := newState.Pulses
		diff.Pulses = &pulses
	}

	oldLen := 0
	if oldState != nil {
		oldLen = len(oldState.History)
	}
	if len(newState.History) > oldLen {
		diff.Entered = append([]Stage(nil), newState.History[oldLen:]...)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Stage == nil &&
		d.Status == nil &&
		d.Pulses == nil &&
		len(d.Entered) == 0
}
