package image

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/hilthontt/eventra/domain/apperrors"
	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/domain/repository"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"go.uber.org/zap"
)

// Storage persists raw image bytes. The local disk implementation lives
// in infrastructure/storage.
type Storage interface {
	SaveImage(file *multipart.FileHeader, eventID int64) (string, error)
	DeleteImage(storedName string) error
}

type ImageUseCase interface {
	UploadTemporary(ctx context.Context, uploaderID, eventID int64, file *multipart.FileHeader) (*model.Image, error)
	GetByID(ctx context.Context, id int64) (*model.Image, error)
	DeleteTemporary(ctx context.Context, requesterID, imageID int64) error
	CleanupTemporaryImages(ctx context.Context) (int, error)
}

type imageUseCase struct {
	images  repository.ImageRepository
	events  repository.EventRepository
	storage Storage
	logger  *logger.Logger
	tempTTL time.Duration
}

func NewImageUseCase(
	images repository.ImageRepository,
	events repository.EventRepository,
	storage Storage,
	logger *logger.Logger,
	tempTTL time.Duration,
) ImageUseCase {
	return &imageUseCase{
		images:  images,
		events:  events,
		storage: storage,
		logger:  logger,
		tempTTL: tempTTL,
	}
}

// UploadTemporary stores an image for an event without attaching it to
// any message yet. Attachment happens later through the chat flow; what
// stays unattached past the TTL is reaped by the cleanup job.
func (uc *imageUseCase) UploadTemporary(ctx context.Context, uploaderID, eventID int64, file *multipart.FileHeader) (*model.Image, error) {
	isParticipant, err := uc.events.ExistsParticipant(ctx, eventID, uploaderID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		uc.logger.Warn("upload attempt by non-participant",
			zap.Int64("eventId", eventID),
			zap.Int64("uploaderId", uploaderID))
		return nil, apperrors.AccessDenied("user is not a participant of this event")
	}

	storedName, err := uc.storage.SaveImage(file, eventID)
	if err != nil {
		return nil, err
	}

	img := &model.Image{
		Filename:         storedName,
		OriginalFilename: file.Filename,
		UploaderID:       uploaderID,
		EventID:          eventID,
	}

	if err := uc.images.Create(ctx, img); err != nil {
		_ = uc.storage.DeleteImage(storedName)
		uc.logger.Error("failed to persist uploaded image", zap.Error(err),
			zap.Int64("eventId", eventID))
		return nil, err
	}

	uc.logger.Info("image uploaded",
		zap.Int64("imageId", img.ID),
		zap.Int64("eventId", eventID),
		zap.Int64("uploaderId", uploaderID))
	return img, nil
}

func (uc *imageUseCase) GetByID(ctx context.Context, id int64) (*model.Image, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("image id must be positive")
	}

	return uc.images.GetByID(ctx, id)
}

// DeleteTemporary removes an image that never made it onto a message.
// Attached images are owned by their message and go away with it.
func (uc *imageUseCase) DeleteTemporary(ctx context.Context, requesterID, imageID int64) error {
	img, err := uc.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}

	if img.UploaderID != requesterID {
		return apperrors.AccessDenied("only the uploader can delete this image")
	}

	if img.IsAttached() {
		return apperrors.InvalidInput("image is attached to a message")
	}

	if err := uc.images.Delete(ctx, imageID); err != nil {
		return err
	}

	if err := uc.storage.DeleteImage(img.Filename); err != nil {
		uc.logger.Warn("failed to remove image file", zap.Error(err),
			zap.String("filename", img.Filename))
	}

	return nil
}

// CleanupTemporaryImages deletes unattached images older than the TTL,
// both the rows and the files. Returns how many were removed.
func (uc *imageUseCase) CleanupTemporaryImages(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-uc.tempTTL)

	stale, err := uc.images.ListUnattachedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, img := range stale {
		if err := uc.images.Delete(ctx, img.ID); err != nil {
			uc.logger.Warn("failed to delete stale image row", zap.Error(err),
				zap.Int64("imageId", img.ID))
			continue
		}

		if err := uc.storage.DeleteImage(img.Filename); err != nil {
			uc.logger.Warn("failed to remove stale image file", zap.Error(err),
				zap.String("filename", img.Filename))
		}

		removed++
	}

	return removed, nil
}
