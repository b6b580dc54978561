package image

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	imageUseCase "github.com/hilthontt/eventra/application/usecases/image"
	"github.com/hilthontt/eventra/presentation/httperr"
	"github.com/hilthontt/eventra/presentation/middlewares"
)

type ImageController interface {
	Upload(ctx *gin.Context)
	Get(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type imageController struct {
	usecase imageUseCase.ImageUseCase
}

func NewImageController(usecase imageUseCase.ImageUseCase) ImageController {
	return &imageController{usecase: usecase}
}

type UploadResponse struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Upload accepts a multipart image for an event. The image starts out
// unattached; clients reference it by id in a later chat send.
func (c *imageController) Upload(ctx *gin.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("eventId"), 10, 64)
	if err != nil || eventID <= 0 {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid eventId",
		})
		return
	}

	user, exists := middlewares.GetUserFromContext(ctx)
	if !exists {
		ctx.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
			Error:   "unauthorized",
			Message: "user not found in context",
		})
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

	img, err := c.usecase.UploadTemporary(ctx.Request.Context(), user.ID, eventID, file)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, UploadResponse{
		ID:       img.ID,
		URL:      img.URL(),
		Filename: img.OriginalFilename,
	})
}

func (c *imageController) Get(ctx *gin.Context) {
	imageID, err := strconv.ParseInt(ctx.Param("imageId"), 10, 64)
	if err != nil || imageID <= 0 {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid imageId",
		})
		return
	}

	img, err := c.usecase.GetByID(ctx.Request.Context(), imageID)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	var messageID int64
	if img.ChatMessageID != nil {
		messageID = *img.ChatMessageID
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":        img.ID,
		"url":       img.URL(),
		"eventId":   img.EventID,
		"messageId": messageID,
	})
}

func (c *imageController) Delete(ctx *gin.Context) {
	imageID, err := strconv.ParseInt(ctx.Param("imageId"), 10, 64)
	if err != nil || imageID <= 0 {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid imageId",
		})
		return
	}

	user, exists := middlewares.GetUserFromContext(ctx)
	if !exists {
		ctx.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
			Error:   "unauthorized",
			Message: "user not found in context",
		})
		return
	}

	if err := c.usecase.DeleteTemporary(ctx.Request.Context(), user.ID, imageID); err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
