package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	chatUseCase "github.com/hilthontt/eventra/application/usecases/chat"
	"github.com/hilthontt/eventra/domain/apperrors"
	"github.com/hilthontt/eventra/infrastructure/logger"
	"github.com/hilthontt/eventra/infrastructure/websocket"
	"github.com/hilthontt/eventra/presentation/middlewares"
	"go.uber.org/zap"
)

const (
	// Shown in place of content when a send carries only images.
	imageOnlyPlaceholder = "(image)"

	sendTimeout = 10 * time.Second
)

type WebSocketController interface {
	HandleConnection(ctx *gin.Context)
}

type webSocketController struct {
	chatUseCase chatUseCase.ChatUseCase
	wsCore      *websocket.Core
	logger      *logger.Logger
}

func NewWebSocketController(
	chatUseCase chatUseCase.ChatUseCase,
	wsCore *websocket.Core,
	logger *logger.Logger,
) WebSocketController {
	return &webSocketController{
		chatUseCase: chatUseCase,
		wsCore:      wsCore,
		logger:      logger,
	}
}

// HandleConnection upgrades the request and starts the pumps. Topics
// are joined later through subscribe frames; the connection itself only
// needs an authenticated user.
func (c *webSocketController) HandleConnection(ctx *gin.Context) {
	user, exists := middlewares.GetUserFromContext(ctx)
	if !exists {
		ctx.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "authentication required",
		})
		return
	}

	conn, err := c.wsCore.TopicManager().Upgrade(ctx.Writer, ctx.Request)
	if err != nil {
		c.logger.Error("websocket upgrade failed",
			zap.Int64("userId", user.ID),
			zap.Error(err))
		return
	}

	client := websocket.NewClient(conn, uuid.NewString(), user.ID, c.logger)
	c.wsCore.Register() <- client

	go client.WritePump()
	go client.ReadPump(c.wsCore, c)
}

// HandleSend runs one chat send end to end: post the message, attach
// the referenced images one by one, then push the final state. Image
// failures skip the image, never the message. An empty send still posts
// the placeholder instead of being rejected; only a failed post reports
// back on the sender's topic.
func (c *webSocketController) HandleSend(client *websocket.Client, eventID int64, payload websocket.SendPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	content := payload.Content
	if content == "" {
		content = imageOnlyPlaceholder
	}

	msg, err := c.chatUseCase.PostMessage(ctx, eventID, client.UserID, content)
	if err != nil {
		c.reportSendFailure(client, eventID, err)
		return
	}

	attached := 0
	for _, imageID := range payload.ImageIDs {
		if _, err := c.chatUseCase.AttachImage(ctx, client.UserID, msg.ID, imageID); err != nil {
			c.logger.Warn("skipping image on send",
				zap.Int64("messageId", msg.ID),
				zap.Int64("imageId", imageID),
				zap.Error(err))
			continue
		}
		attached++
	}

	if attached == 0 {
		return
	}

	// Subscribers got the bare message before the attaches; rebroadcast
	// it with the final image set.
	full, err := c.chatUseCase.GetMessage(ctx, client.UserID, msg.ID)
	if err != nil {
		c.logger.Warn("failed to reload message after attaching images",
			zap.Int64("messageId", msg.ID),
			zap.Error(err))
		return
	}

	c.wsCore.Publish(websocket.NewMessageReceived(full.EventID, websocket.ToMessagePayload(full)))
}

func (c *webSocketController) reportSendFailure(client *websocket.Client, eventID int64, err error) {
	c.logger.Warn("chat send failed",
		zap.Int64("eventId", eventID),
		zap.Int64("userId", client.UserID),
		zap.Error(err))

	reason := "message could not be delivered"
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput:
		reason = err.Error()
	case apperrors.KindAccessDenied:
		reason = "not allowed to post in this room"
	case apperrors.KindUnavailable:
		reason = "service temporarily unavailable"
	}

	errMsg := websocket.NewChatError(eventID, reason)

	if client.IsClosed() {
		return
	}

	select {
	case client.Message <- errMsg:
	default:
	}
}
