package websocket

import (
	"github.com/hilthontt/eventra/domain/model"
)

// Notifier bridges the chat usecase to the websocket fan-out. The
// usecase never touches topics or clients; it hands over domain models
// and this adapter shapes them for the wire.
type Notifier struct {
	core *Core
}

func NewNotifier(core *Core) *Notifier {
	return &Notifier{core: core}
}

func (n *Notifier) MessageReceived(msg *model.ChatMessage) {
	n.core.Publish(NewMessageReceived(msg.EventID, ToMessagePayload(msg)))
}

func (n *Notifier) MessageUpdated(msg *model.ChatMessage) {
	n.core.Publish(NewMessageUpdated(msg.EventID, ToMessagePayload(msg)))
}

func (n *Notifier) MessageDeleted(eventID, messageID int64) {
	n.core.Publish(NewMessageDeleted(eventID, messageID))
}

func (n *Notifier) ImageAdded(eventID int64, img *model.Image) {
	n.core.Publish(NewImageAdded(eventID, toImagePayload(img)))
}

func (n *Notifier) ImageRemoved(eventID int64, img *model.Image) {
	n.core.Publish(NewImageRemoved(eventID, toImagePayload(img)))
}

func (n *Notifier) TasksChanged(eventID int64) {
	n.core.Publish(NewTasksRefresh(eventID))
}

func (n *Notifier) ChecklistChanged(eventID int64) {
	n.core.Publish(NewChecklistRefresh(eventID))
}

// ToMessagePayload shapes a chat message for the wire.
func ToMessagePayload(msg *model.ChatMessage) MessagePayload {
	images := make([]ImagePayload, 0, len(msg.Images))
	for i := range msg.Images {
		images = append(images, toImagePayload(&msg.Images[i]))
	}

	return MessagePayload{
		ID:        msg.ID,
		Content:   msg.Content,
		Edited:    msg.Edited,
		EventID:   msg.EventID,
		AuthorID:  msg.AuthorID,
		Author:    msg.Author.Username,
		Images:    images,
		CreatedAt: msg.CreatedAt,
		UpdatedAt: msg.UpdatedAt,
	}
}

func toImagePayload(img *model.Image) ImagePayload {
	var messageID int64
	if img.ChatMessageID != nil {
		messageID = *img.ChatMessageID
	}

	return ImagePayload{
		ID:        img.ID,
		URL:       img.URL(),
		MessageID: messageID,
	}
}
