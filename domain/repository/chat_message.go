package repository

import (
	"context"

	"github.com/hilthontt/eventra/domain/model"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *model.ChatMessage) error
	GetByID(ctx context.Context, id int64) (*model.ChatMessage, error)
	GetByIDWithImages(ctx context.Context, id int64) (*model.ChatMessage, error)
	Update(ctx context.Context, message *model.ChatMessage) error
	Delete(ctx context.Context, id int64) error
	ListByEvent(ctx context.Context, eventID int64, page model.Page) (*model.MessagePage, error)
	Count(ctx context.Context) (int64, error)
}
