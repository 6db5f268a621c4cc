package bus

import "time"

// Event kinds published by the application. Subscribers filter by
// namespace prefix, e.g. "conversation." receives every conversation event.
const (
	KindSessionStateChanged = "session.state_changed"
	KindSessionSignedIn     = "session.signed_in"
	KindSessionSignedOut    = "session.signed_out"

	KindRosterUpdated = "roster.updated"
	KindRosterError   = "roster.error"

	KindConversationSnapshot   = "conversation.snapshot"
	KindConversationError      = "conversation.error"
	KindConversationSendFailed = "conversation.send_failed"
)

// Event is a domain event delivered on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
