package image

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/hilthontt/eventra/domain/apperrors"
	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageRepo struct {
	images map[int64]*model.Image
	nextID int64
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[int64]*model.Image)}
}

func (r *fakeImageRepo) add(uploaderID, eventID int64, age time.Duration, attached *int64) *model.Image {
	r.nextID++
	img := &model.Image{
		ID:            r.nextID,
		Filename:      "stored.png",
		UploaderID:    uploaderID,
		EventID:       eventID,
		ChatMessageID: attached,
		CreatedAt:     time.Now().Add(-age),
	}
	r.images[img.ID] = img
	return img
}

func (r *fakeImageRepo) Create(ctx context.Context, image *model.Image) error {
	r.nextID++
	image.ID = r.nextID
	cp := *image
	r.images[image.ID] = &cp
	return nil
}

func (r *fakeImageRepo) GetByID(ctx context.Context, id int64) (*model.Image, error) {
	img, ok := r.images[id]
	if !ok {
		return nil, apperrors.NotFound("image %d not found", id)
	}
	cp := *img
	return &cp, nil
}

func (r *fakeImageRepo) Update(ctx context.Context, image *model.Image) error {
	stored, ok := r.images[image.ID]
	if !ok {
		return apperrors.NotFound("image %d not found", image.ID)
	}
	stored.ChatMessageID = image.ChatMessageID
	return nil
}

func (r *fakeImageRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.images[id]; !ok {
		return apperrors.NotFound("image %d not found", id)
	}
	delete(r.images, id)
	return nil
}

func (r *fakeImageRepo) ListByMessage(ctx context.Context, messageID int64) ([]*model.Image, error) {
	return nil, nil
}

func (r *fakeImageRepo) ListUnattachedBefore(ctx context.Context, cutoff time.Time) ([]*model.Image, error) {
	var out []*model.Image
	for _, img := range r.images {
		if img.ChatMessageID == nil && img.CreatedAt.Before(cutoff) {
			out = append(out, img)
		}
	}
	return out, nil
}

type fakeEventRepo struct {
	participants map[[2]int64]bool
}

func (r *fakeEventRepo) Create(ctx context.Context, event *model.Event) error { return nil }
func (r *fakeEventRepo) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	return nil, apperrors.NotFound("event %d not found", id)
}
func (r *fakeEventRepo) Exists(ctx context.Context, id int64) (bool, error) { return true, nil }
func (r *fakeEventRepo) ExistsParticipant(ctx context.Context, eventID, userID int64) (bool, error) {
	return r.participants[[2]int64{eventID, userID}], nil
}
func (r *fakeEventRepo) AddParticipant(ctx context.Context, eventID, userID int64) error {
	return nil
}
func (r *fakeEventRepo) RemoveParticipant(ctx context.Context, eventID, userID int64) error {
	return nil
}

type fakeStorage struct {
	saved   []string
	deleted []string
}

func (s *fakeStorage) SaveImage(file *multipart.FileHeader, eventID int64) (string, error) {
	s.saved = append(s.saved, file.Filename)
	return "stored-" + file.Filename, nil
}

func (s *fakeStorage) DeleteImage(storedName string) error {
	s.deleted = append(s.deleted, storedName)
	return nil
}

func newFixture(t *testing.T, ttl time.Duration) (ImageUseCase, *fakeImageRepo, *fakeEventRepo, *fakeStorage) {
	t.Helper()

	log, err := logger.NewDevelopmentLogger()
	require.NoError(t, err)

	images := newFakeImageRepo()
	events := &fakeEventRepo{participants: make(map[[2]int64]bool)}
	store := &fakeStorage{}

	return NewImageUseCase(images, events, store, log, ttl), images, events, store
}

func TestCleanupTemporaryImages(t *testing.T) {
	uc, images, _, store := newFixture(t, time.Hour)

	messageID := int64(99)
	images.add(10, 5, 2*time.Hour, nil)        // stale, unattached
	images.add(10, 5, 2*time.Hour, &messageID) // stale but attached
	images.add(10, 5, time.Minute, nil)        // fresh

	removed, err := uc.CleanupTemporaryImages(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Len(t, images.images, 2)
	assert.Equal(t, []string{"stored.png"}, store.deleted)
}

func TestDeleteTemporary(t *testing.T) {
	uc, images, _, store := newFixture(t, time.Hour)

	img := images.add(10, 5, time.Minute, nil)

	t.Run("wrong user", func(t *testing.T) {
		err := uc.DeleteTemporary(context.Background(), 11, img.ID)
		assert.True(t, apperrors.IsAccessDenied(err))
	})

	t.Run("uploader", func(t *testing.T) {
		err := uc.DeleteTemporary(context.Background(), 10, img.ID)
		require.NoError(t, err)
		assert.Empty(t, images.images)
		assert.Equal(t, []string{"stored.png"}, store.deleted)
	})
}

func TestDeleteTemporaryAttachedRefused(t *testing.T) {
	uc, images, _, _ := newFixture(t, time.Hour)

	messageID := int64(99)
	img := images.add(10, 5, time.Minute, &messageID)

	err := uc.DeleteTemporary(context.Background(), 10, img.ID)
	assert.True(t, apperrors.IsInvalidInput(err))
}
