package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	userUseCase "github.com/hilthontt/eventra/application/usecases/user"
	"github.com/hilthontt/eventra/presentation/httperr"
)

type UserController interface {
	Register(ctx *gin.Context)
	Get(ctx *gin.Context)
}

type userController struct {
	usecase userUseCase.UserUseCase
}

func NewUserController(usecase userUseCase.UserUseCase) UserController {
	return &userController{usecase: usecase}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (c *userController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	user, err := c.usecase.Register(ctx.Request.Context(), req.Username, req.Email)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func (c *userController) Get(ctx *gin.Context) {
	userID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		ctx.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid userId",
		})
		return
	}

	user, err := c.usecase.GetByID(ctx.Request.Context(), userID)
	if err != nil {
		httperr.Respond(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}
