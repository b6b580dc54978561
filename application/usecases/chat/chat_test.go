package chat

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/hilthontt/eventra/domain/apperrors"
	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageRepo struct {
	messages  map[int64]*model.ChatMessage
	images    *fakeImageRepo
	nextID    int64
	reloadErr error
}

func newFakeMessageRepo(images *fakeImageRepo) *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[int64]*model.ChatMessage), images: images}
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *model.ChatMessage) error {
	r.nextID++
	message.ID = r.nextID
	message.CreatedAt = time.Now()
	message.UpdatedAt = message.CreatedAt
	cp := *message
	r.messages[message.ID] = &cp
	return nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id int64) (*model.ChatMessage, error) {
	msg, ok := r.messages[id]
	if !ok {
		return nil, apperrors.NotFound("chat message %d not found", id)
	}
	cp := *msg
	return &cp, nil
}

func (r *fakeMessageRepo) GetByIDWithImages(ctx context.Context, id int64) (*model.ChatMessage, error) {
	if r.reloadErr != nil {
		return nil, r.reloadErr
	}
	msg, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.Images = nil
	for _, img := range r.images.attachedTo(id) {
		msg.Images = append(msg.Images, *img)
	}
	return msg, nil
}

func (r *fakeMessageRepo) Update(ctx context.Context, message *model.ChatMessage) error {
	stored, ok := r.messages[message.ID]
	if !ok {
		return apperrors.NotFound("chat message %d not found", message.ID)
	}
	stored.Content = message.Content
	stored.Edited = message.Edited
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeMessageRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.messages[id]; !ok {
		return apperrors.NotFound("chat message %d not found", id)
	}
	delete(r.messages, id)
	return nil
}

func (r *fakeMessageRepo) ListByEvent(ctx context.Context, eventID int64, page model.Page) (*model.MessagePage, error) {
	var items []*model.ChatMessage
	for _, msg := range r.messages {
		if msg.EventID == eventID {
			cp := *msg
			items = append(items, &cp)
		}
	}
	return &model.MessagePage{
		TotalElements: int64(len(items)),
		TotalPages:    1,
		Items:         items,
	}, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.messages)), nil
}

type fakeImageRepo struct {
	images map[int64]*model.Image
	nextID int64
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{images: make(map[int64]*model.Image)}
}

func (r *fakeImageRepo) add(uploaderID, eventID int64) *model.Image {
	r.nextID++
	img := &model.Image{
		ID:         r.nextID,
		Filename:   "stored.png",
		UploaderID: uploaderID,
		EventID:    eventID,
		CreatedAt:  time.Now(),
	}
	r.images[img.ID] = img
	return img
}

func (r *fakeImageRepo) attachedTo(messageID int64) []*model.Image {
	var out []*model.Image
	for _, img := range r.images {
		if img.ChatMessageID != nil && *img.ChatMessageID == messageID {
			out = append(out, img)
		}
	}
	return out
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
	return r.attachedTo(messageID), nil
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
	events       map[int64]bool
	participants map[[2]int64]bool
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:       make(map[int64]bool),
		participants: make(map[[2]int64]bool),
	}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *model.Event) error { return nil }
func (r *fakeEventRepo) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	return nil, apperrors.NotFound("event %d not found", id)
}

// An event exists when registered directly or when anyone participates in it.
func (r *fakeEventRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if r.events[id] {
		return true, nil
	}
	for key := range r.participants {
		if key[0] == id {
			return true, nil
		}
	}
	return false, nil
}
func (r *fakeEventRepo) ExistsParticipant(ctx context.Context, eventID, userID int64) (bool, error) {
	return r.participants[[2]int64{eventID, userID}], nil
}
func (r *fakeEventRepo) AddParticipant(ctx context.Context, eventID, userID int64) error {
	r.participants[[2]int64{eventID, userID}] = true
	return nil
}
func (r *fakeEventRepo) RemoveParticipant(ctx context.Context, eventID, userID int64) error {
	delete(r.participants, [2]int64{eventID, userID})
	return nil
}

type fakeUserRepo struct {
	users map[int64]*model.User
}

func newFakeUserRepo(ids ...int64) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*model.User)}
	for _, id := range ids {
		r.users[id] = &model.User{ID: id}
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }
func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user %d not found", id)
	}
	return user, nil
}
func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, apperrors.NotFound("user %s not found", username)
}
func (r *fakeUserRepo) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

type notifierRecorder struct {
	received []int64
	updated  []int64
	deleted  []int64
	added    []int64
	removed  []int64
}

func (n *notifierRecorder) MessageReceived(msg *model.ChatMessage) { n.received = append(n.received, msg.ID) }
func (n *notifierRecorder) MessageUpdated(msg *model.ChatMessage)  { n.updated = append(n.updated, msg.ID) }
func (n *notifierRecorder) MessageDeleted(eventID, messageID int64) {
	n.deleted = append(n.deleted, messageID)
}
func (n *notifierRecorder) ImageAdded(eventID int64, img *model.Image) {
	n.added = append(n.added, img.ID)
}
func (n *notifierRecorder) ImageRemoved(eventID int64, img *model.Image) {
	n.removed = append(n.removed, img.ID)
}

type fileStoreRecorder struct {
	saved   []string
	removed []string
	saveErr error
}

func (f *fileStoreRecorder) SaveImage(file *multipart.FileHeader, eventID int64) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	name := fmt.Sprintf("event-%d/%s", eventID, file.Filename)
	f.saved = append(f.saved, name)
	return name, nil
}

func (f *fileStoreRecorder) DeleteImage(storedName string) error {
	f.removed = append(f.removed, storedName)
	return nil
}

type fixture struct {
	uc       ChatUseCase
	messages *fakeMessageRepo
	images   *fakeImageRepo
	events   *fakeEventRepo
	users    *fakeUserRepo
	notifier *notifierRecorder
	files    *fileStoreRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, err := logger.NewDevelopmentLogger()
	require.NoError(t, err)

	images := newFakeImageRepo()
	messages := newFakeMessageRepo(images)
	events := newFakeEventRepo()
	users := newFakeUserRepo(10, 11)
	notifier := &notifierRecorder{}
	files := &fileStoreRecorder{}

	return &fixture{
		uc:       NewChatUseCase(messages, images, events, users, notifier, files, log),
		messages: messages,
		images:   images,
		events:   events,
		users:    users,
		notifier: notifier,
		files:    files,
	}
}

func TestPostMessage(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "hello")

	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)
	assert.Equal(t, int64(5), msg.EventID)
	assert.Equal(t, int64(10), msg.AuthorID)
	assert.False(t, msg.Edited)
	assert.Equal(t, []int64{msg.ID}, f.notifier.received)
}

func TestPostMessageNonParticipant(t *testing.T) {
	f := newFixture(t)
	f.events.events[5] = true

	_, err := f.uc.PostMessage(context.Background(), 5, 10, "hello")

	assert.True(t, apperrors.IsAccessDenied(err))
	assert.Empty(t, f.notifier.received)
}

func TestPostMessageContentValidation(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	_, err := f.uc.PostMessage(context.Background(), 5, 10, "   ")
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = f.uc.PostMessage(context.Background(), 5, 10, strings.Repeat("a", 2001))
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = f.uc.PostMessage(context.Background(), 5, 10, strings.Repeat("a", 2000))
	assert.NoError(t, err)
}

func TestEditMessageSetsEditedFlag(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "original")
	require.NoError(t, err)

	edited, err := f.uc.EditMessage(context.Background(), 10, msg.ID, "changed")
	require.NoError(t, err)
	assert.Equal(t, "changed", edited.Content)
	assert.True(t, edited.Edited)

	// The flag stays set through further edits.
	again, err := f.uc.EditMessage(context.Background(), 10, msg.ID, "changed again")
	require.NoError(t, err)
	assert.True(t, again.Edited)
	assert.Equal(t, []int64{msg.ID, msg.ID}, f.notifier.updated)
}

func TestEditMessageNonAuthor(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true
	f.events.participants[[2]int64{5, 11}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "original")
	require.NoError(t, err)

	_, err = f.uc.EditMessage(context.Background(), 11, msg.ID, "hijacked")
	assert.True(t, apperrors.IsAccessDenied(err))

	stored, err := f.messages.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Content)
	assert.False(t, stored.Edited)
}

func TestDeleteMessageRemovesImages(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "with images")
	require.NoError(t, err)

	img1 := f.images.add(10, 5)
	img2 := f.images.add(10, 5)
	_, err = f.uc.AttachImage(context.Background(), 10, msg.ID, img1.ID)
	require.NoError(t, err)
	_, err = f.uc.AttachImage(context.Background(), 10, msg.ID, img2.ID)
	require.NoError(t, err)

	err = f.uc.DeleteMessage(context.Background(), 10, msg.ID)
	require.NoError(t, err)

	_, err = f.messages.GetByID(context.Background(), msg.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.images.images)
	assert.Len(t, f.files.removed, 2)
	assert.Equal(t, []int64{msg.ID}, f.notifier.deleted)
}

func TestDeleteMessageNonAuthor(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "mine")
	require.NoError(t, err)

	err = f.uc.DeleteMessage(context.Background(), 11, msg.ID)
	assert.True(t, apperrors.IsAccessDenied(err))

	_, err = f.messages.GetByID(context.Background(), msg.ID)
	assert.NoError(t, err)
}

func TestAttachImageChecks(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true
	f.events.participants[[2]int64{5, 11}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "msg")
	require.NoError(t, err)

	t.Run("uploader mismatch", func(t *testing.T) {
		img := f.images.add(11, 5)
		_, err := f.uc.AttachImage(context.Background(), 10, msg.ID, img.ID)
		assert.True(t, apperrors.IsAccessDenied(err))
	})

	t.Run("event mismatch", func(t *testing.T) {
		img := f.images.add(10, 6)
		_, err := f.uc.AttachImage(context.Background(), 10, msg.ID, img.ID)
		assert.True(t, apperrors.IsInvalidInput(err))
	})

	t.Run("already attached", func(t *testing.T) {
		img := f.images.add(10, 5)
		_, err := f.uc.AttachImage(context.Background(), 10, msg.ID, img.ID)
		require.NoError(t, err)

		_, err = f.uc.AttachImage(context.Background(), 10, msg.ID, img.ID)
		assert.True(t, apperrors.IsInvalidInput(err))
	})

	t.Run("unknown image", func(t *testing.T) {
		_, err := f.uc.AttachImage(context.Background(), 10, msg.ID, 9999)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestDetachImageDeletesIt(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "msg")
	require.NoError(t, err)

	img := f.images.add(10, 5)
	_, err = f.uc.AttachImage(context.Background(), 10, msg.ID, img.ID)
	require.NoError(t, err)

	err = f.uc.DetachImage(context.Background(), 10, msg.ID, img.ID)
	require.NoError(t, err)

	_, err = f.images.GetByID(context.Background(), img.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, []string{"stored.png"}, f.files.removed)
	assert.Equal(t, []int64{img.ID}, f.notifier.removed)
}

func TestDetachImageMarksEdited(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "msg")
	require.NoError(t, err)

	img := f.images.add(10, 5)
	_, err = f.uc.AttachImage(context.Background(), 10, msg.ID, img.ID)
	require.NoError(t, err)

	err = f.uc.DetachImage(context.Background(), 10, msg.ID, img.ID)
	require.NoError(t, err)

	stored, err := f.messages.GetByID(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.True(t, stored.Edited)
	assert.Equal(t, "msg", stored.Content)
}

func TestDetachImageNotOnMessage(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "msg")
	require.NoError(t, err)

	img := f.images.add(10, 5)

	err = f.uc.DetachImage(context.Background(), 10, msg.ID, img.ID)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestListMessagesVisibleToAnyCaller(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	_, err := f.uc.PostMessage(context.Background(), 5, 10, "hello")
	require.NoError(t, err)

	// Listing does not depend on who asks.
	page, err := f.uc.ListMessages(context.Background(), 5, model.Page{Size: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
}

func TestListMessagesUnknownEvent(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.ListMessages(context.Background(), 999, model.Page{Size: 50})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPostMessageUnknownEvent(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.PostMessage(context.Background(), 999, 10, "hello")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.notifier.received)
}

func TestPostMessageUnknownAuthor(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 42}] = true

	_, err := f.uc.PostMessage(context.Background(), 5, 42, "hello")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.notifier.received)
}

func TestPostMessageNotifiesDespiteReloadFailure(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true
	f.messages.reloadErr = apperrors.Unavailable(nil, "db down")

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "hello")

	require.NoError(t, err)
	assert.Equal(t, []int64{msg.ID}, f.notifier.received)
}

func TestAttachUploadedImage(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "msg")
	require.NoError(t, err)

	file := &multipart.FileHeader{Filename: "photo.png"}
	img, err := f.uc.AttachUploadedImage(context.Background(), 10, msg.ID, file)

	require.NoError(t, err)
	require.NotNil(t, img.ChatMessageID)
	assert.Equal(t, msg.ID, *img.ChatMessageID)
	assert.Equal(t, int64(5), img.EventID)
	assert.Equal(t, "photo.png", img.OriginalFilename)
	assert.Equal(t, []string{"event-5/photo.png"}, f.files.saved)
	assert.Equal(t, []int64{img.ID}, f.notifier.added)

	stored, err := f.messages.GetByIDWithImages(context.Background(), msg.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Images, 1)
}

func TestAttachUploadedImageNonAuthor(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	msg, err := f.uc.PostMessage(context.Background(), 5, 10, "msg")
	require.NoError(t, err)

	file := &multipart.FileHeader{Filename: "photo.png"}
	_, err = f.uc.AttachUploadedImage(context.Background(), 11, msg.ID, file)

	assert.True(t, apperrors.IsAccessDenied(err))
	assert.Empty(t, f.files.saved)
	assert.Empty(t, f.notifier.added)
}

func TestGetMessageRoundTrip(t *testing.T) {
	f := newFixture(t)
	f.events.participants[[2]int64{5, 10}] = true

	posted, err := f.uc.PostMessage(context.Background(), 5, 10, "hello")
	require.NoError(t, err)

	got, err := f.uc.GetMessage(context.Background(), 10, posted.ID)
	require.NoError(t, err)
	assert.Equal(t, posted.ID, got.ID)
	assert.Equal(t, "hello", got.Content)
}
