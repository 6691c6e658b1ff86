// Package fallback tracks whether the client is serving tasks from its
// local store instead of the backend, and why.
package fallback

import "sync"

// Mode is the demo-mode flag plus the human-readable reason for the
// most recent fallback transition. The reason is overwritten, never
// appended: only the latest cause is retained.
type Mode struct {
	mu     sync.Mutex
	active bool
	reason string
}

func NewMode() *Mode {
	return &Mode{}
}

// Enter activates fallback mode. Idempotent: entering while already
// active overwrites the reason.
func (m *Mode) Enter(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = true
	m.reason = reason
}

// Exit clears the flag and the reason.
func (m *Mode) Exit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = false
	m.reason = ""
}

func (m *Mode) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *Mode) Reason() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reason
}
