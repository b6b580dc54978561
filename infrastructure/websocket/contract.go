package websocket

import "encoding/json"

// Client-to-server actions.
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
	ActionSend        = "send"
)

// Frame is what clients write on the socket.
type Frame struct {
	Action string          `json:"action"`
	Topic  string          `json:"topic"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// SendPayload carries a chat send over an already-subscribed topic.
type SendPayload struct {
	Content  string  `json:"content"`
	ImageIDs []int64 `json:"imageIds,omitempty"`
}

// SendHandler processes send frames. Implementations run outside the
// read pump; the pump fires each send on its own goroutine.
type SendHandler interface {
	HandleSend(client *Client, eventID int64, payload SendPayload)
}
