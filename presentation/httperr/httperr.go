package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hilthontt/eventra/domain/apperrors"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Respond writes the HTTP rendering of a domain error. Unknown errors
// become 500s and are pushed onto the gin error list so the logging and
// sentry middlewares pick them up.
func Respond(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case apperrors.KindAccessDenied:
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
	case apperrors.KindInvalidInput:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
	case apperrors.KindUnavailable:
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "unavailable",
			Message: "service temporarily unavailable",
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_server_error",
			Message: "something went wrong",
		})
	}
}
