package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	UserID    string    `json:"user_id,omitempty"`
	TermsID   string    `json:"tos_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

type Action string

const (
	ActionTermsCreated       Action = "terms_created"
	ActionTermsAccepted      Action = "terms_accepted"
	ActionTermsAcceptIgnored Action = "terms_accept_ignored"
	ActionTermsAcceptFailed  Action = "terms_accept_failed"
)
