package chat

import (
	"time"

	"github.com/hilthontt/eventra/domain/model"
)

type PostMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type ImageResponse struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	MessageID int64  `json:"messageId,omitempty"`
}

type MessageResponse struct {
	ID        int64           `json:"id"`
	Content   string          `json:"content"`
	Edited    bool            `json:"edited"`
	EventID   int64           `json:"eventId"`
	AuthorID  int64           `json:"authorId"`
	Author    string          `json:"author"`
	Images    []ImageResponse `json:"images"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type MessagePageResponse struct {
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	Items         []MessageResponse `json:"items"`
}

func toImageResponse(img *model.Image) ImageResponse {
	var messageID int64
	if img.ChatMessageID != nil {
		messageID = *img.ChatMessageID
	}

	return ImageResponse{
		ID:        img.ID,
		URL:       img.URL(),
		MessageID: messageID,
	}
}

func toMessageResponse(msg *model.ChatMessage) MessageResponse {
	images := make([]ImageResponse, 0, len(msg.Images))
	for i := range msg.Images {
		images = append(images, toImageResponse(&msg.Images[i]))
	}

	return MessageResponse{
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
