package domain

import "errors"

// ErrStageRejected is returned when an event has no edge out of the current stage.
var ErrStageRejected = errors.New("event rejected by current stage")

// ErrAlreadyStarted is returned when a session is started twice.
var ErrAlreadyStarted = errors.New("session already started")

// ErrNotStarted is returned when events are dispatched before Start.
var ErrNotStarted = errors.New("session not started")
