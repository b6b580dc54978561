package chat

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	chatUseCase "github.com/hilthontt/eventra/application/usecases/chat"
	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/presentation/httperr"
	"github.com/hilthontt/eventra/presentation/middlewares"
)

type ChatController interface {
	PostMessage(ctx *gin.Context)
	EditMessage(ctx *gin.Context)
	DeleteMessage(ctx *gin.Context)
	AttachImage(ctx *gin.Context)
	DetachImage(ctx *gin.Context)
	GetMessage(ctx *gin.Context)
	ListMessageImages(ctx *gin.Context)
	ListMessages(ctx *gin.Context)
}

type chatController struct {
	usecase chatUseCase.ChatUseCase
}

func NewChatController(usecase chatUseCase.ChatUseCase) ChatController {
	return &chatController{usecase: usecase}
}

func pathID(ctx *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid " + param,
		})
		return 0, false
	}
	return id, true
}

func requestUser(ctx *gin.Context) (*model.User, bool) {
	user, exists := middlewares.GetUserFromContext(ctx)
	if !exists {
		ctx.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
			Error:   "unauthorized",
			Message: "user not found in context",
		})
		return nil, false
	}
	return user, true
}

func (c *chatController) PostMessage(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "eventId")
	if !ok {
		return
	}

	user, ok := requestUser(ctx)
	if !ok {
		return
	}

	var req PostMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	msg, err := c.usecase.PostMessage(ctx.Request.Context(), eventID, user.ID, req.Content)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toMessageResponse(msg))
}

func (c *chatController) EditMessage(ctx *gin.Context) {
	messageID, ok := pathID(ctx, "messageId")
	if !ok {
		return
	}

	user, ok := requestUser(ctx)
	if !ok {
		return
	}

	var req EditMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	msg, err := c.usecase.EditMessage(ctx.Request.Context(), user.ID, messageID, req.Content)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toMessageResponse(msg))
}

func (c *chatController) DeleteMessage(ctx *gin.Context) {
	messageID, ok := pathID(ctx, "messageId")
	if !ok {
		return
	}

	user, ok := requestUser(ctx)
	if !ok {
		return
	}

	if err := c.usecase.DeleteMessage(ctx.Request.Context(), user.ID, messageID); err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (c *chatController) AttachImage(ctx *gin.Context) {
	messageID, ok := pathID(ctx, "messageId")
	if !ok {
		return
	}

	user, ok := requestUser(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: "image file is required",
		})
		return
	}

	img, err := c.usecase.AttachUploadedImage(ctx.Request.Context(), user.ID, messageID, file)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toImageResponse(img))
}

func (c *chatController) DetachImage(ctx *gin.Context) {
	messageID, ok := pathID(ctx, "messageId")
	if !ok {
		return
	}

	imageID, ok := pathID(ctx, "imageId")
	if !ok {
		return
	}

	user, ok := requestUser(ctx)
	if !ok {
		return
	}

	if err := c.usecase.DetachImage(ctx.Request.Context(), user.ID, messageID, imageID); err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (c *chatController) GetMessage(ctx *gin.Context) {
	messageID, ok := pathID(ctx, "messageId")
	if !ok {
		return
	}

	user, ok := requestUser(ctx)
	if !ok {
		return
	}

	msg, err := c.usecase.GetMessage(ctx.Request.Context(), user.ID, messageID)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toMessageResponse(msg))
}

func (c *chatController) ListMessageImages(ctx *gin.Context) {
	messageID, ok := pathID(ctx, "messageId")
	if !ok {
		return
	}

	user, ok := requestUser(ctx)
	if !ok {
		return
	}

	msg, err := c.usecase.GetMessage(ctx.Request.Context(), user.ID, messageID)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	images := make([]ImageResponse, 0, len(msg.Images))
	for i := range msg.Images {
		images = append(images, toImageResponse(&msg.Images[i]))
	}

	ctx.JSON(http.StatusOK, images)
}

// ListMessages returns the event's chat page. Who may list is decided
// by the route's participant check, not here.
func (c *chatController) ListMessages(ctx *gin.Context) {
	eventID, ok := pathID(ctx, "eventId")
	if !ok {
		return
	}

	page := model.Page{Number: 0, Size: 50}
	if raw := ctx.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.Number = n
		}
	}
	if raw := ctx.Query("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.Size = n
		}
	}
	page = page.Normalize()

	result, err := c.usecase.ListMessages(ctx.Request.Context(), eventID, page)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	items := make([]MessageResponse, 0, len(result.Items))
	for _, msg := range result.Items {
		items = append(items, toMessageResponse(msg))
	}

	ctx.JSON(http.StatusOK, MessagePageResponse{
		TotalElements: result.TotalElements,
		TotalPages:    result.TotalPages,
		Page:          page.Number,
		Size:          page.Size,
		Items:         items,
	})
}
