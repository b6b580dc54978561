package repository

import (
	"context"
	"fmt"

	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type eventRepository struct {
	db     *gorm.DB
	tracer trace.Tracer
}

func NewEventRepository(db *gorm.DB, tracer trace.Tracer) repository.EventRepository {
	return &eventRepository{
		db:     db,
		tracer: tracer,
	}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	ctx, span := r.tracer.Start(ctx, "eventRepository.Create")
	defer span.End()

	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create event")
		return translate(err, "event not found")
	}

	span.SetAttributes(attribute.Int64("event.id", event.ID))
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	ctx, span := r.tracer.Start(ctx, "eventRepository.GetByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("event.id", id))

	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Participants").
		First(&event, id).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get event")
		return nil, translate(err, fmt.Sprintf("event with id %d not found", id))
	}

	return &event, nil
}

func (r *eventRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "eventRepository.Exists")
	defer span.End()

	span.SetAttributes(attribute.Int64("event.id", id))

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check event existence")
		return false, translate(err, "event not found")
	}

	return count > 0, nil
}

func (r *eventRepository) ExistsParticipant(ctx context.Context, eventID, userID int64) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "eventRepository.ExistsParticipant")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("event.id", eventID),
		attribute.Int64("user.id", userID),
	)

	var count int64
	err := r.db.WithContext(ctx).
		Table("event_participants").
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check participant")
		return false, translate(err, "event not found")
	}

	span.SetAttributes(attribute.Bool("participant", count > 0))
	return count > 0, nil
}

func (r *eventRepository) AddParticipant(ctx context.Context, eventID, userID int64) error {
	ctx, span := r.tracer.Start(ctx, "eventRepository.AddParticipant")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("event.id", eventID),
		attribute.Int64("user.id", userID),
	)

	err := r.db.WithContext(ctx).
		Model(&model.Event{ID: eventID}).
		Association("Participants").
		Append(&model.User{ID: userID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add participant")
		return translate(err, fmt.Sprintf("event with id %d not found", eventID))
	}

	return nil
}

func (r *eventRepository) RemoveParticipant(ctx context.Context, eventID, userID int64) error {
	ctx, span := r.tracer.Start(ctx, "eventRepository.RemoveParticipant")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("event.id", eventID),
		attribute.Int64("user.id", userID),
	)

	err := r.db.WithContext(ctx).
		Model(&model.Event{ID: eventID}).
		Association("Participants").
		Delete(&model.User{ID: userID})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to remove participant")
		return translate(err, fmt.Sprintf("event with id %d not found", eventID))
	}

	return nil
}
