// Package queue defines the auth events exchanged over RabbitMQ together with
// the publisher used by the API and the consumer run by the worker.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// AuthEventsQueue is the durable queue all auth events are routed to.
const AuthEventsQueue = "auth.events"

// EventType names an auth lifecycle event.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserLoggedIn   EventType = "user.logged_in"
	EventSessionRevoked EventType = "session.revoked"
)

// AuthEvent carries enough to audit the action without querying the database.
// Tokens are never included.
type AuthEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	UserID     string    `json:"user_id,omitempty"`
	Username   string    `json:"username,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAuthEvent stamps a new event with a fresh id and the current UTC time.
func NewAuthEvent(t EventType, userID uuid.UUID, username string) AuthEvent {
	ev := AuthEvent{
		ID:         uuid.NewString(),
		Type:       t,
		Username:   username,
		OccurredAt: time.Now().UTC(),
	}
	if userID != uuid.Nil {
		ev.UserID = userID.String()
	}
	return ev
}
