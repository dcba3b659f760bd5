// Package id provides centralized ID generation.
//
// Session IDs are plain UUIDv4 strings: the agent CLI's --session-id flag
// only accepts that format, and resuming a session requires handing the
// identical identifier back.
package id

import (
	"github.com/google/uuid"
)

// SessionID identifies an agent session across spawn, registry, and
// session-state files.
type SessionID string

// NewSessionID generates a new random session ID.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

func (id SessionID) String() string { return string(id) }

// IsValid reports whether a string is a well-formed session ID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
