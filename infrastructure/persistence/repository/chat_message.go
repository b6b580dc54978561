package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type chatMessageRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewChatMessageRepository(db *gorm.DB, tracer trace.Tracer) repository.ChatMessageRepository {
	return &chatMessageRepository{
		db:     db,
		tracer: tracer,
	}
}

func (r *chatMessageRepository) Create(ctx context.Context, message *model.ChatMessage) error {
	ctx, span := r.tracer.Start(ctx, "chatMessageRepository.Create")
	defer span.End()

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create message")
		return translate(err, "message not found")
	}

	span.SetAttributes(
		attribute.Int64("message.id", message.ID),
		attribute.Int64("event.id", message.EventID),
	)
	return nil
}

func (r *chatMessageRepository) GetByID(ctx context.Context, id int64) (*model.ChatMessage, error) {
	ctx, span := r.tracer.Start(ctx, "chatMessageRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("message.id", id))

	var message model.ChatMessage
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&message, id).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get message")
		return nil, translate(err, fmt.Sprintf("message with id %d not found", id))
	}

	return &message, nil
}

func (r *chatMessageRepository) GetByIDWithImages(ctx context.Context, id int64) (*model.ChatMessage, error) {
	ctx, span := r.tracer.Start(ctx, "chatMessageRepository.GetByIDWithImages")
	defer span.End()

	span.SetAttributes(attribute.Int64("message.id", id))

	var message model.ChatMessage
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Images").
		First(&message, id).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get message with images")
		return nil, translate(err, fmt.Sprintf("message with id %d not found", id))
	}

	return &message, nil
}

func (r *chatMessageRepository) Update(ctx context.Context, message *model.ChatMessage) error {
	ctx, span := r.tracer.Start(ctx, "chatMessageRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("message.id", message.ID))

	// EventID and AuthorID are immutable; only content and the edited flag
	// are ever written back.
	err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("id = ?", message.ID).
		Updates(map[string]any{
			"content": message.Content,
			"edited":  message.Edited,
		}).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update message")
		return translate(err, fmt.Sprintf("message with id %d not found", message.ID))
	}

	return nil
}

func (r *chatMessageRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "chatMessageRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("message.id", id))

	result := r.db.WithContext(ctx).Delete(&model.ChatMessage{}, id)
	if result.Error != nil {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, "failed to delete message")
		return translate(result.Error, fmt.Sprintf("message with id %d not found", id))
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, fmt.Sprintf("message with id %d not found", id))
	}

	return nil
}

func (r *chatMessageRepository) ListByEvent(ctx context.Context, eventID int64, page model.Page) (*model.MessagePage, error) {
	ctx, span := r.tracer.Start(ctx, "chatMessageRepository.ListByEvent")
	defer span.End()

	page = page.Normalize()
	span.SetAttributes(
		attribute.Int64("event.id", eventID),
		attribute.Int("page.number", page.Number),
		attribute.Int("page.size", page.Size),
	)

	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("event_id = ?", eventID).
		Count(&total).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count messages")
		return nil, translate(err, "event not found")
	}

	var messages []*model.ChatMessage
	err = r.db.WithContext(ctx).
		Preload("Author").
		Preload("Images").
		Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&messages).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list messages")
		return nil, translate(err, "event not found")
	}

	return &model.MessagePage{
		TotalElements: total,
		TotalPages:    int(math.Ceil(float64(total) / float64(page.Size))),
		Items:         messages,
	}, nil
}

func (r *chatMessageRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "chatMessageRepository.Count")
	defer span.End()

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ChatMessage{}).Count(&count).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to count messages")
		return 0, translate(err, "messages not found")
	}

	return count, nil
}
