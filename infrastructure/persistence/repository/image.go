package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type imageRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewImageRepository(db *gorm.DB, tracer trace.Tracer) repository.ImageRepository {
	return &imageRepository{
		db:     db,
		tracer: tracer,
	}
}

func (r *imageRepository) Create(ctx context.Context, image *model.Image) error {
	ctx, span := r.tracer.Start(ctx, "imageRepository.Create")
	defer span.End()

	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create image")
		return translate(err, "image not found")
	}

	span.SetAttributes(attribute.Int64("image.id", image.ID))
	return nil
}

func (r *imageRepository) GetByID(ctx context.Context, id int64) (*model.Image, error) {
	ctx, span := r.tracer.Start(ctx, "imageRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("image.id", id))

	var image model.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get image")
		return nil, translate(err, fmt.Sprintf("image with id %d not found", id))
	}

	return &image, nil
}

func (r *imageRepository) Update(ctx context.Context, image *model.Image) error {
	ctx, span := r.tracer.Start(ctx, "imageRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("image.id", image.ID))

	// Filename and UploaderID are immutable; only the owning message link
	// changes after creation. Select forces writing NULL on detach.
	err := r.db.WithContext(ctx).
		Model(&model.Image{}).
		Where("id = ?", image.ID).
		Select("chat_message_id").
		Updates(map[string]any{
			"chat_message_id": image.ChatMessageID,
		}).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update image")
		return translate(err, fmt.Sprintf("image with id %d not found", image.ID))
	}

	return nil
}

func (r *imageRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "imageRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("image.id", id))

	result := r.db.WithContext(ctx).Delete(&model.Image{}, id)
	if result.Error != nil {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, "failed to delete image")
		return translate(result.Error, fmt.Sprintf("image with id %d not found", id))
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("image with id %d not found", id))
	}

	return nil
}

func (r *imageRepository) ListByMessage(ctx context.Context, messageID int64) ([]*model.Image, error) {
	ctx, span := r.tracer.Start(ctx, "imageRepository.ListByMessage")
	defer span.End()

	span.SetAttributes(attribute.Int64("message.id", messageID))

	var images []*model.Image
	err := r.db.WithContext(ctx).
		Where("chat_message_id = ?", messageID).
		Order("id ASC").
		Find(&images).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list message images")
		return nil, translate(err, "message not found")
	}

	return images, nil
}

func (r *imageRepository) ListUnattachedBefore(ctx context.Context, cutoff time.Time) ([]*model.Image, error) {
	ctx, span := r.tracer.Start(ctx, "imageRepository.ListUnattachedBefore")
	defer span.End()

	span.SetAttributes(attribute.String("cutoff", cutoff.Format(time.RFC3339)))

	var images []*model.Image
	err := r.db.WithContext(ctx).
		Where("chat_message_id IS NULL AND created_at < ?", cutoff).
		Find(&images).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list unattached images")
		return nil, translate(err, "images not found")
	}

	return images, nil
}
