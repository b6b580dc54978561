package repository

import (
	"context"

	"github.com/hilthontt/eventra/domain/model"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	Exists(ctx context.Context, id int64) (bool, error)

	// ExistsParticipant answers whether userID is a participant of eventID.
	// A nonexistent event yields false, not an error. Results must never be
	// cached: subscription authorization re-evaluates this on every call.
	ExistsParticipant(ctx context.Context, eventID, userID int64) (bool, error)

	AddParticipant(ctx context.Context, eventID, userID int64) error
	RemoveParticipant(ctx context.Context, eventID, userID int64) error
}
