package domain

type EventKind string

const (
	EventCommand EventKind = "command"
	EventText    EventKind = "text"
	EventButton  EventKind = "button"
)

// Event is an inbound update after the transport has stripped its own framing.
type Event struct {
	UserID       int64
	Kind         EventKind
	Command      string
	Payload      string
	Username     string
	DisplayName  string
	LanguageCode string
	CallbackID   string
	// MessageID is the message whose keyboard produced a button event.
	MessageID    int
}

// Choice is one selectable option; Token comes back as the payload of a
// button event.
type Choice struct {
	Label string
	Token string
}
