package event

import "time"

// Party lifecycle event types.
const (
	TypePartyFormed    = "party.formed"
	TypePartyCompleted = "party.completed"
)

// Context carries routing metadata shared by all party events.
type Context struct {
	PartyID    string `json:"partyID"`
	InstanceID int    `json:"instanceID"`
	EventType  string `json:"eventType"`
	ElapsedMs  int    `json:"elapsedMs"`
}

// Event is a typed notification emitted by the engine.
type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

// NewEvent creates an event with the given context and payload.
func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}
