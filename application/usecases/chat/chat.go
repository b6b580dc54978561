package chat

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/hilthontt/eventra/domain/apperrors"
	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/domain/repository"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"go.uber.org/zap"
)

const maxContentLength = 2000

// Notifier pushes chat changes to live subscribers. Notifications fire
// after the write has committed; delivery is best-effort.
type Notifier interface {
	MessageReceived(msg *model.ChatMessage)
	MessageUpdated(msg *model.ChatMessage)
	MessageDeleted(eventID, messageID int64)
	ImageAdded(eventID int64, img *model.Image)
	ImageRemoved(eventID int64, img *model.Image)
}

// FileStore persists uploaded image files and removes them once their
// rows are gone.
type FileStore interface {
	SaveImage(file *multipart.FileHeader, eventID int64) (string, error)
	DeleteImage(storedName string) error
}

type ChatUseCase interface {
	PostMessage(ctx context.Context, eventID, authorID int64, content string) (*model.ChatMessage, error)
	EditMessage(ctx context.Context, requesterID, messageID int64, content string) (*model.ChatMessage, error)
	DeleteMessage(ctx context.Context, requesterID, messageID int64) error
	AttachImage(ctx context.Context, requesterID, messageID, imageID int64) (*model.Image, error)
	AttachUploadedImage(ctx context.Context, requesterID, messageID int64, file *multipart.FileHeader) (*model.Image, error)
	DetachImage(ctx context.Context, requesterID, messageID, imageID int64) error
	GetMessage(ctx context.Context, requesterID, messageID int64) (*model.ChatMessage, error)
	ListMessages(ctx context.Context, eventID int64, page model.Page) (*model.MessagePage, error)
}

type chatUseCase struct {
	messages repository.ChatMessageRepository
	images   repository.ImageRepository
	events   repository.EventRepository
	users    repository.UserRepository
	notifier Notifier
	files    FileStore
	logger   *logger.Logger

	locks keyedMutex
}

func NewChatUseCase(
	messages repository.ChatMessageRepository,
	images repository.ImageRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	notifier Notifier,
	files FileStore,
	logger *logger.Logger,
) ChatUseCase {
	return &chatUseCase{
		messages: messages,
		images:   images,
		events:   events,
		users:    users,
		notifier: notifier,
		files:    files,
		logger:   logger,
	}
}

func validateContent(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", apperrors.InvalidInput("message content cannot be empty")
	}

	if len(content) > maxContentLength {
		return "", apperrors.InvalidInput("message content exceeds %d characters", maxContentLength)
	}

	return content, nil
}

func (uc *chatUseCase) PostMessage(ctx context.Context, eventID, authorID int64, content string) (*model.ChatMessage, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	eventExists, err := uc.events.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !eventExists {
		return nil, apperrors.NotFound("event with id %d not found", eventID)
	}

	isParticipant, err := uc.events.ExistsParticipant(ctx, eventID, authorID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		uc.logger.Warn("post attempt by non-participant",
			zap.Int64("eventId", eventID),
			zap.Int64("userId", authorID))
		return nil, apperrors.AccessDenied("user is not a participant of this event")
	}

	userExists, err := uc.users.Exists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !userExists {
		return nil, apperrors.NotFound("user with id %d not found", authorID)
	}

	msg := &model.ChatMessage{
		Content:  content,
		EventID:  eventID,
		AuthorID: authorID,
	}

	if err := uc.messages.Create(ctx, msg); err != nil {
		uc.logger.Error("failed to create chat message", zap.Error(err),
			zap.Int64("eventId", eventID))
		return nil, err
	}

	// Reload with the author preloaded so subscribers get a full view.
	// The write has committed either way, so a failed reload still
	// broadcasts, just without the preloaded associations.
	created, err := uc.messages.GetByIDWithImages(ctx, msg.ID)
	if err != nil {
		uc.logger.Warn("failed to reload message after create", zap.Error(err),
			zap.Int64("messageId", msg.ID))
		uc.notifier.MessageReceived(msg)
		return msg, nil
	}

	uc.notifier.MessageReceived(created)

	uc.logger.Info("chat message posted",
		zap.Int64("messageId", created.ID),
		zap.Int64("eventId", eventID))
	return created, nil
}

// EditMessage replaces the content of the requester's own message. The
// edited flag is set on the first edit and never cleared afterwards.
func (uc *chatUseCase) EditMessage(ctx context.Context, requesterID, messageID int64, content string) (*model.ChatMessage, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	mu := uc.locks.lock(messageID)
	defer mu.Unlock()

	msg, err := uc.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if !msg.IsAuthor(requesterID) {
		uc.logger.Warn("edit attempt by non-author",
			zap.Int64("messageId", messageID),
			zap.Int64("userId", requesterID))
		return nil, apperrors.AccessDenied("only the author can edit this message")
	}

	msg.Content = content
	msg.Edited = true

	if err := uc.messages.Update(ctx, msg); err != nil {
		uc.logger.Error("failed to update chat message", zap.Error(err),
			zap.Int64("messageId", messageID))
		return nil, err
	}

	updated, err := uc.messages.GetByIDWithImages(ctx, messageID)
	if err != nil {
		uc.logger.Warn("failed to reload message after edit", zap.Error(err),
			zap.Int64("messageId", messageID))
		uc.notifier.MessageUpdated(msg)
		return msg, nil
	}

	uc.notifier.MessageUpdated(updated)
	return updated, nil
}

// DeleteMessage removes the requester's own message together with every
// attached image, rows first, files best-effort after.
func (uc *chatUseCase) DeleteMessage(ctx context.Context, requesterID, messageID int64) error {
	mu := uc.locks.lock(messageID)
	defer mu.Unlock()

	msg, err := uc.messages.GetByIDWithImages(ctx, messageID)
	if err != nil {
		return err
	}

	if !msg.IsAuthor(requesterID) {
		uc.logger.Warn("delete attempt by non-author",
			zap.Int64("messageId", messageID),
			zap.Int64("userId", requesterID))
		return apperrors.AccessDenied("only the author can delete this message")
	}

	for i := range msg.Images {
		img := &msg.Images[i]
		if err := uc.images.Delete(ctx, img.ID); err != nil {
			uc.logger.Error("failed to delete attached image", zap.Error(err),
				zap.Int64("imageId", img.ID))
			return err
		}
	}

	if err := uc.messages.Delete(ctx, messageID); err != nil {
		uc.logger.Error("failed to delete chat message", zap.Error(err),
			zap.Int64("messageId", messageID))
		return err
	}

	for i := range msg.Images {
		if err := uc.files.DeleteImage(msg.Images[i].Filename); err != nil {
			uc.logger.Warn("failed to remove image file", zap.Error(err),
				zap.String("filename", msg.Images[i].Filename))
		}
	}

	uc.notifier.MessageDeleted(msg.EventID, messageID)

	uc.logger.Info("chat message deleted",
		zap.Int64("messageId", messageID),
		zap.Int64("eventId", msg.EventID))
	return nil
}

// AttachImage binds an uploaded image to the requester's message. The
// image must belong to the requester, live in the same event, and not
// already sit on another message.
func (uc *chatUseCase) AttachImage(ctx context.Context, requesterID, messageID, imageID int64) (*model.Image, error) {
	mu := uc.locks.lock(messageID)
	defer mu.Unlock()

	msg, err := uc.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if !msg.IsAuthor(requesterID) {
		return nil, apperrors.AccessDenied("only the author can attach images to this message")
	}

	img, err := uc.images.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}

	if img.UploaderID != requesterID {
		return nil, apperrors.AccessDenied("only the uploader can attach this image")
	}

	if img.EventID != msg.EventID {
		return nil, apperrors.InvalidInput("image belongs to a different event")
	}

	if img.IsAttached() {
		return nil, apperrors.InvalidInput("image is already attached to a message")
	}

	img.ChatMessageID = &messageID

	if err := uc.images.Update(ctx, img); err != nil {
		uc.logger.Error("failed to attach image", zap.Error(err),
			zap.Int64("imageId", imageID),
			zap.Int64("messageId", messageID))
		return nil, err
	}

	uc.notifier.ImageAdded(msg.EventID, img)

	uc.logger.Info("image attached",
		zap.Int64("imageId", imageID),
		zap.Int64("messageId", messageID))
	return img, nil
}

// AttachUploadedImage stores a fresh upload and binds it to the
// requester's message in one step. The stored file is rolled back when
// the row cannot be created.
func (uc *chatUseCase) AttachUploadedImage(ctx context.Context, requesterID, messageID int64, file *multipart.FileHeader) (*model.Image, error) {
	mu := uc.locks.lock(messageID)
	defer mu.Unlock()

	msg, err := uc.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if !msg.IsAuthor(requesterID) {
		return nil, apperrors.AccessDenied("only the author can attach images to this message")
	}

	storedName, err := uc.files.SaveImage(file, msg.EventID)
	if err != nil {
		return nil, err
	}

	img := &model.Image{
		Filename:         storedName,
		OriginalFilename: file.Filename,
		UploaderID:       requesterID,
		EventID:          msg.EventID,
		ChatMessageID:    &messageID,
	}

	if err := uc.images.Create(ctx, img); err != nil {
		uc.logger.Error("failed to create image", zap.Error(err),
			zap.Int64("messageId", messageID))
		if rmErr := uc.files.DeleteImage(storedName); rmErr != nil {
			uc.logger.Warn("failed to remove stored file after rollback", zap.Error(rmErr),
				zap.String("filename", storedName))
		}
		return nil, err
	}

	uc.notifier.ImageAdded(msg.EventID, img)

	uc.logger.Info("image uploaded and attached",
		zap.Int64("imageId", img.ID),
		zap.Int64("messageId", messageID))
	return img, nil
}

// DetachImage removes an image from the requester's message and deletes
// it outright; detached images are not kept around.
func (uc *chatUseCase) DetachImage(ctx context.Context, requesterID, messageID, imageID int64) error {
	mu := uc.locks.lock(messageID)
	defer mu.Unlock()

	msg, err := uc.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if !msg.IsAuthor(requesterID) {
		return apperrors.AccessDenied("only the author can detach images from this message")
	}

	img, err := uc.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}

	if img.ChatMessageID == nil || *img.ChatMessageID != messageID {
		return apperrors.InvalidInput("image is not attached to this message")
	}

	if err := uc.images.Delete(ctx, imageID); err != nil {
		uc.logger.Error("failed to detach image", zap.Error(err),
			zap.Int64("imageId", imageID))
		return err
	}

	// Detaching counts as an edit of the message.
	msg.Edited = true
	if err := uc.messages.Update(ctx, msg); err != nil {
		uc.logger.Error("failed to mark message edited after detach", zap.Error(err),
			zap.Int64("messageId", messageID))
		return err
	}

	if err := uc.files.DeleteImage(img.Filename); err != nil {
		uc.logger.Warn("failed to remove image file", zap.Error(err),
			zap.String("filename", img.Filename))
	}

	uc.notifier.ImageRemoved(msg.EventID, img)
	return nil
}

func (uc *chatUseCase) GetMessage(ctx context.Context, requesterID, messageID int64) (*model.ChatMessage, error) {
	msg, err := uc.messages.GetByIDWithImages(ctx, messageID)
	if err != nil {
		return nil, err
	}

	isParticipant, err := uc.events.ExistsParticipant(ctx, msg.EventID, requesterID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		return nil, apperrors.AccessDenied("user is not a participant of this event")
	}

	return msg, nil
}

// ListMessages returns a page of the event's messages. Visibility does
// not depend on the caller: access control sits on the route, not here.
func (uc *chatUseCase) ListMessages(ctx context.Context, eventID int64, page model.Page) (*model.MessagePage, error) {
	exists, err := uc.events.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound("event with id %d not found", eventID)
	}

	page = page.Normalize()

	return uc.messages.ListByEvent(ctx, eventID, page)
}
