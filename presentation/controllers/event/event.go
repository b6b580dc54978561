package event

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	eventUseCase "github.com/hilthontt/eventra/application/usecases/event"
	"github.com/hilthontt/eventra/domain/model"
	"github.com/hilthontt/eventra/presentation/httperr"
	"github.com/hilthontt/eventra/presentation/middlewares"
)

type EventController interface {
	Create(ctx *gin.Context)
	Get(ctx *gin.Context)
	AddParticipant(ctx *gin.Context)
	RemoveParticipant(ctx *gin.Context)
}

type eventController struct {
	usecase eventUseCase.EventUseCase
}

func NewEventController(usecase eventUseCase.EventUseCase) EventController {
	return &eventController{usecase: usecase}
}

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

type ParticipantRequest struct {
	UserID int64 `json:"userId" binding:"required,gt=0"`
}

type ParticipantResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type EventResponse struct {
	ID           int64                 `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	CreatorID    int64                 `json:"creatorId"`
	Participants []ParticipantResponse `json:"participants"`
	CreatedAt    time.Time             `json:"createdAt"`
}

func toEventResponse(e *model.Event) EventResponse {
	participants := make([]ParticipantResponse, 0, len(e.Participants))
	for _, p := range e.Participants {
		participants = append(participants, ParticipantResponse{
			ID:       p.ID,
			Username: p.Username,
		})
	}

	return EventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		CreatorID:    e.CreatorID,
		Participants: participants,
		CreatedAt:    e.CreatedAt,
	}
}

func (c *eventController) Create(ctx *gin.Context) {
	user, exists := middlewares.GetUserFromContext(ctx)
	if !exists {
		ctx.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
			Error:   "unauthorized",
			Message: "user not found in context",
		})
		return
	}

	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	event, err := c.usecase.Create(ctx.Request.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toEventResponse(event))
}

func (c *eventController) Get(ctx *gin.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("eventId"), 10, 64)
	if err != nil || eventID <= 0 {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid eventId",
		})
		return
	}

	event, err := c.usecase.GetByID(ctx.Request.Context(), eventID)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toEventResponse(event))
}

func (c *eventController) AddParticipant(ctx *gin.Context) {
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

	var req ParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: middlewares.TranslateValidationError(err),
		})
		return
	}

	if err := c.usecase.AddParticipant(ctx.Request.Context(), eventID, user.ID, req.UserID); err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

func (c *eventController) RemoveParticipant(ctx *gin.Context) {
	eventID, err := strconv.ParseInt(ctx.Param("eventId"), 10, 64)
	if err != nil || eventID <= 0 {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid eventId",
		})
		return
	}

	userID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid userId",
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

	if err := c.usecase.RemoveParticipant(ctx.Request.Context(), eventID, user.ID, userID); err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
