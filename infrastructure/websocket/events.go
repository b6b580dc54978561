package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// Server-to-client message types.
const (
	TypeMessageReceived  = "message.received"
	TypeMessageUpdated   = "message.updated"
	TypeMessageDeleted   = "message.deleted"
	TypeImageAdded       = "image.added"
	TypeImageRemoved     = "image.removed"
	TypeTasksRefresh     = "tasks.refresh"
	TypeChecklistRefresh = "checklist.refresh"
	TypeChatError        = "chat.error"
)

// WSMessage is the envelope for everything pushed to subscribers.
type WSMessage struct {
	Type  string      `json:"type"`
	Topic string      `json:"topic"`
	Data  interface{} `json:"data,omitempty"`
}

func (m *WSMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}

type MessagePayload struct {
	ID        int64          `json:"id"`
	Content   string         `json:"content"`
	Edited    bool           `json:"edited"`
	EventID   int64          `json:"eventId"`
	AuthorID  int64          `json:"authorId"`
	Author    string         `json:"author"`
	Images    []ImagePayload `json:"images"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type ImagePayload struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	MessageID int64  `json:"messageId"`
}

type DeletedPayload struct {
	ID int64 `json:"id"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

// ChatTopic names the chat room topic for an event.
func ChatTopic(eventID int64) string {
	return fmt.Sprintf("room/chat/%d", eventID)
}

// ChatImagesTopic names the image side-channel for an event's chat room.
// Messages published here are also delivered to ChatTopic subscribers.
func ChatImagesTopic(eventID int64) string {
	return ChatTopic(eventID) + "/images"
}

func TasksTopic(eventID int64) string {
	return fmt.Sprintf("room/tasks/%d", eventID)
}

func ChecklistTopic(eventID int64) string {
	return fmt.Sprintf("room/checklist/%d", eventID)
}

func NewMessageReceived(eventID int64, msg MessagePayload) *WSMessage {
	return &WSMessage{Type: TypeMessageReceived, Topic: ChatTopic(eventID), Data: msg}
}

func NewMessageUpdated(eventID int64, msg MessagePayload) *WSMessage {
	return &WSMessage{Type: TypeMessageUpdated, Topic: ChatTopic(eventID), Data: msg}
}

func NewMessageDeleted(eventID, messageID int64) *WSMessage {
	return &WSMessage{Type: TypeMessageDeleted, Topic: ChatTopic(eventID), Data: DeletedPayload{ID: messageID}}
}

func NewImageAdded(eventID int64, img ImagePayload) *WSMessage {
	return &WSMessage{Type: TypeImageAdded, Topic: ChatImagesTopic(eventID), Data: img}
}

func NewImageRemoved(eventID int64, img ImagePayload) *WSMessage {
	return &WSMessage{Type: TypeImageRemoved, Topic: ChatImagesTopic(eventID), Data: img}
}

func NewTasksRefresh(eventID int64) *WSMessage {
	return &WSMessage{Type: TypeTasksRefresh, Topic: TasksTopic(eventID)}
}

func NewChecklistRefresh(eventID int64) *WSMessage {
	return &WSMessage{Type: TypeChecklistRefresh, Topic: ChecklistTopic(eventID)}
}

func NewChatError(eventID int64, reason string) *WSMessage {
	return &WSMessage{Type: TypeChatError, Topic: ChatTopic(eventID), Data: ErrorPayload{Reason: reason}}
}
