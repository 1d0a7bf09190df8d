package ports

import (
	"context"
	"time"
)

// SessionEventKind names what changed about a user's sign-in state.
type SessionEventKind string

const (
	SessionSignIn  SessionEventKind = "sign_in"
	SessionSignOut SessionEventKind = "sign_out"
	// SessionRefresh means the profile behind the session changed (role, soft delete).
	SessionRefresh SessionEventKind = "refresh"
)

// SessionEvent is emitted whenever the signed-in identity of a UID changes.
// SessionID is empty when the event applies to every session of the UID.
type SessionEvent struct {
	UID       string           `json:"uid"`
	SessionID string           `json:"sid,omitempty"`
	Kind      SessionEventKind `json:"kind"`
	At        time.Time        `json:"at"`
}

// SessionEventPublisher broadcasts session-change events.
type SessionEventPublisher interface {
	Publish(ctx context.Context, event SessionEvent) error
}

// SessionEventSource delivers session-change events until ctx is cancelled.
type SessionEventSource interface {
	Subscribe(ctx context.Context) (<-chan SessionEvent, error)
}
