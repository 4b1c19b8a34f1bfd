// Package queue carries auth events over the message broker: the publisher
// used by the HTTP handlers and the audit consumer run by cmd/auth-audit.
package queue

import "time"

// AuthQueueName is the durable queue every auth event is routed to.
const AuthQueueName = "auth.events"

// Event types.
const (
	EventUserRegistered         = "user.registered"
	EventUserLoggedIn           = "user.logged_in"
	EventPasswordChanged        = "password.changed"
	EventPasswordResetRequested = "password.reset_requested"
	EventPasswordReset          = "password.reset"
	EventVerificationRequested  = "email.verification_requested"
	EventEmailVerified          = "email.verified"
	EventAccountDeleted         = "account.deleted"
	EventAccountSuspended       = "account.suspended"
	EventAccountReactivated     = "account.reactivated"
	EventOrganizerOnboarded     = "organizer.onboarded"
)

// AuthEvent is published after a state change in the auth subsystem.  Link
// carries the reset or verification URL for events that would otherwise be
// an email; mail delivery is a downstream consumer's concern.
type AuthEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	Link       string    `json:"link,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
