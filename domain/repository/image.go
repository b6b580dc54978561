package repository

import (
	"context"
	"time"

	"github.com/hilthontt/eventra/domain/model"
)

type ImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	GetByID(ctx context.Context, id int64) (*model.Image, error)
	Update(ctx context.Context, image *model.Image) error
	Delete(ctx context.Context, id int64) error
	ListByMessage(ctx context.Context, messageID int64) ([]*model.Image, error)

	// ListUnattachedBefore returns temporary images uploaded before cutoff
	// that were never attached to a message. Used by the cleanup job.
	ListUnattachedBefore(ctx context.Context, cutoff time.Time) ([]*model.Image, error)
}
