package websocket

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/hilthontt/eventra/domain/apperrors"
	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"github.com/hilthontt/eventra/infrastructure/metrics"
	ws "github.com/hilthontt/eventra/infrastructure/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatUseCase struct {
	postErr    error
	attachErrs map[int64]error
	getErr     error

	posted      []string
	attached    []int64
	lastEventID int64
	nextID      int64
}

func (f *fakeChatUseCase) PostMessage(ctx context.Context, eventID, authorID int64, content string) (*model.ChatMessage, error) {
	if f.postErr != nil {
		return nil, f.postErr
	}
	f.nextID++
	f.posted = append(f.posted, content)
	f.lastEventID = eventID
	return &model.ChatMessage{ID: f.nextID, Content: content, EventID: eventID, AuthorID: authorID}, nil
}

func (f *fakeChatUseCase) EditMessage(ctx context.Context, requesterID, messageID int64, content string) (*model.ChatMessage, error) {
	return nil, apperrors.NotFound("not implemented")
}

func (f *fakeChatUseCase) DeleteMessage(ctx context.Context, requesterID, messageID int64) error {
	return apperrors.NotFound("not implemented")
}

func (f *fakeChatUseCase) AttachImage(ctx context.Context, requesterID, messageID, imageID int64) (*model.Image, error) {
	if err, ok := f.attachErrs[imageID]; ok {
		return nil, err
	}
	f.attached = append(f.attached, imageID)
	return &model.Image{ID: imageID, ChatMessageID: &messageID}, nil
}

func (f *fakeChatUseCase) AttachUploadedImage(ctx context.Context, requesterID, messageID int64, file *multipart.FileHeader) (*model.Image, error) {
	return nil, apperrors.NotFound("not implemented")
}

func (f *fakeChatUseCase) DetachImage(ctx context.Context, requesterID, messageID, imageID int64) error {
	return apperrors.NotFound("not implemented")
}

func (f *fakeChatUseCase) GetMessage(ctx context.Context, requesterID, messageID int64) (*model.ChatMessage, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	msg := &model.ChatMessage{ID: messageID, EventID: f.lastEventID}
	for _, id := range f.attached {
		msg.Images = append(msg.Images, model.Image{ID: id, ChatMessageID: &messageID})
	}
	return msg, nil
}

func (f *fakeChatUseCase) ListMessages(ctx context.Context, eventID int64, page model.Page) (*model.MessagePage, error) {
	return nil, apperrors.NotFound("not implemented")
}

func newTestController(t *testing.T, uc *fakeChatUseCase) (*webSocketController, *ws.Client) {
	t.Helper()

	log, err := logger.NewDevelopmentLogger()
	require.NoError(t, err)

	core := ws.NewCore(nil, metrics.NewManager("wstest"), log)
	ctrl := &webSocketController{
		chatUseCase: uc,
		wsCore:      core,
		logger:      log,
	}
	client := ws.NewClient(nil, "test-client", 10, log)
	return ctrl, client
}

func TestHandleSendPostsMessage(t *testing.T) {
	uc := &fakeChatUseCase{}
	ctrl, client := newTestController(t, uc)

	ctrl.HandleSend(client, 5, ws.SendPayload{Content: "hello"})

	assert.Equal(t, []string{"hello"}, uc.posted)
	assert.Empty(t, uc.attached)
}

func TestHandleSendImageOnlyUsesPlaceholder(t *testing.T) {
	uc := &fakeChatUseCase{}
	ctrl, client := newTestController(t, uc)

	ctrl.HandleSend(client, 5, ws.SendPayload{ImageIDs: []int64{3, 4}})

	assert.Equal(t, []string{imageOnlyPlaceholder}, uc.posted)
	assert.Equal(t, []int64{3, 4}, uc.attached)
}

func TestHandleSendEmptyPayloadUsesPlaceholder(t *testing.T) {
	uc := &fakeChatUseCase{}
	ctrl, client := newTestController(t, uc)

	// No content and no images still posts the placeholder instead of
	// bouncing the send as invalid.
	ctrl.HandleSend(client, 5, ws.SendPayload{})

	assert.Equal(t, []string{imageOnlyPlaceholder}, uc.posted)
	assert.Empty(t, uc.attached)
}

func TestHandleSendSkipsFailedImages(t *testing.T) {
	uc := &fakeChatUseCase{
		attachErrs: map[int64]error{4: apperrors.InvalidInput("image is already attached to a message")},
	}
	ctrl, client := newTestController(t, uc)

	ctrl.HandleSend(client, 5, ws.SendPayload{Content: "pics", ImageIDs: []int64{3, 4, 6}})

	assert.Equal(t, []string{"pics"}, uc.posted)
	assert.Equal(t, []int64{3, 6}, uc.attached)
}

func TestHandleSendRebroadcastsWithImages(t *testing.T) {
	uc := &fakeChatUseCase{}
	ctrl, sender := newTestController(t, uc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ctrl.wsCore.Run(ctx)

	log, err := logger.NewDevelopmentLogger()
	require.NoError(t, err)
	watcher := ws.NewClient(nil, "watcher", 11, log)
	ctrl.wsCore.TopicManager().Subscribe(ws.ChatTopic(5), watcher)

	ctrl.HandleSend(sender, 5, ws.SendPayload{ImageIDs: []int64{3}})

	// After the attach the full message goes out again, images included.
	select {
	case msg := <-watcher.Message:
		require.Equal(t, ws.TypeMessageReceived, msg.Type)
		payload, ok := msg.Data.(ws.MessagePayload)
		require.True(t, ok)
		require.Len(t, payload.Images, 1)
		assert.Equal(t, int64(3), payload.Images[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no rebroadcast reached the subscriber")
	}
}

func TestHandleSendReportsFailureToSender(t *testing.T) {
	uc := &fakeChatUseCase{postErr: apperrors.AccessDenied("user is not a participant of this event")}
	ctrl, client := newTestController(t, uc)

	ctrl.HandleSend(client, 5, ws.SendPayload{Content: "hello"})

	msg := <-client.Message
	assert.Equal(t, ws.TypeChatError, msg.Type)
	assert.Equal(t, ws.ChatTopic(5), msg.Topic)
	assert.Empty(t, uc.posted)
}

func TestHandleSendFailureOnClosedClient(t *testing.T) {
	uc := &fakeChatUseCase{postErr: apperrors.Unavailable(nil, "db down")}
	ctrl, client := newTestController(t, uc)

	client.Close()

	// Must not panic writing to a closed client.
	ctrl.HandleSend(client, 5, ws.SendPayload{Content: "hello"})
}
