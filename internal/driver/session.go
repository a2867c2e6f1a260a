package driver

import "github.com/google/uuid"

// Session tags one process run. It has no bearing on the core's
// behavior — it exists so a future history/undo driver has a stable
// identifier to key off without the evaluation core needing to know
// that history exists at all.
type Session struct {
	ID string
}

// NewSession mints a session with a fresh random id.
func NewSession() Session {
	return Session{ID: uuid.NewString()}
}
