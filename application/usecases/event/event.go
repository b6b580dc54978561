package event

import (
	"context"
	"strings"

	"github.com/hilthontt/eventra/domain/apperrors"
	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/domain/repository"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"go.uber.org/zap"
)

type EventUseCase interface {
	Create(ctx context.Context, creatorID int64, title, description string) (*model.Event, error)
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	AddParticipant(ctx context.Context, eventID, requesterID, userID int64) error
	RemoveParticipant(ctx context.Context, eventID, requesterID, userID int64) error
	IsParticipant(ctx context.Context, eventID, userID int64) (bool, error)
}

type eventUseCase struct {
	events repository.EventRepository
	users  repository.UserRepository
	logger *logger.Logger
}

func NewEventUseCase(
	events repository.EventRepository,
	users repository.UserRepository,
	logger *logger.Logger,
) EventUseCase {
	return &eventUseCase{
		events: events,
		users:  users,
		logger: logger,
	}
}

func (uc *eventUseCase) Create(ctx context.Context, creatorID int64, title, description string) (*model.Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.InvalidInput("event title cannot be empty")
	}

	creator, err := uc.users.GetByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		Title:       title,
		Description: description,
		CreatorID:   creator.ID,
		Participants: []model.User{*creator},
	}

	if err := uc.events.Create(ctx, event); err != nil {
		uc.logger.Error("failed to create event", zap.Error(err), zap.Int64("creatorId", creatorID))
		return nil, err
	}

	uc.logger.Info("event created", zap.Int64("eventId", event.ID), zap.Int64("creatorId", creatorID))
	return event, nil
}

func (uc *eventUseCase) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("event id must be positive")
	}

	return uc.events.GetByID(ctx, id)
}

// AddParticipant lets the event creator add a user. Adding someone who
// is already a participant is a no-op.
func (uc *eventUseCase) AddParticipant(ctx context.Context, eventID, requesterID, userID int64) error {
	event, err := uc.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.CreatorID != requesterID {
		uc.logger.Warn("unauthorized participant addition attempt",
			zap.Int64("eventId", eventID),
			zap.Int64("requesterId", requesterID))
		return apperrors.AccessDenied("only the event creator can add participants")
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if event.HasParticipant(userID) {
		return nil
	}

	if err := uc.events.AddParticipant(ctx, eventID, user.ID); err != nil {
		uc.logger.Error("failed to add participant", zap.Error(err),
			zap.Int64("eventId", eventID), zap.Int64("userId", userID))
		return err
	}

	uc.logger.Info("participant added", zap.Int64("eventId", eventID), zap.Int64("userId", userID))
	return nil
}

func (uc *eventUseCase) RemoveParticipant(ctx context.Context, eventID, requesterID, userID int64) error {
	event, err := uc.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if event.CreatorID != requesterID && requesterID != userID {
		uc.logger.Warn("unauthorized participant removal attempt",
			zap.Int64("eventId", eventID),
			zap.Int64("requesterId", requesterID))
		return apperrors.AccessDenied("only the event creator can remove other participants")
	}

	if event.CreatorID == userID {
		return apperrors.InvalidInput("the event creator cannot be removed")
	}

	if err := uc.events.RemoveParticipant(ctx, eventID, userID); err != nil {
		uc.logger.Error("failed to remove participant", zap.Error(err),
			zap.Int64("eventId", eventID), zap.Int64("userId", userID))
		return err
	}

	uc.logger.Info("participant removed", zap.Int64("eventId", eventID), zap.Int64("userId", userID))
	return nil
}

func (uc *eventUseCase) IsParticipant(ctx context.Context, eventID, userID int64) (bool, error) {
	return uc.events.ExistsParticipant(ctx, eventID, userID)
}
