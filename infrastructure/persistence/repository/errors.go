package repository

import (
	"context"
	"errors"

	"github.com/hilthontt/eventra/domain/apperrors"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// translate maps store-level failures onto the domain error taxonomy. Timeouts
// and cancellations become Unavailable so callers can distinguish a retryable
// store fault from a permission or existence failure.
func translate(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound("%s", notFoundMsg)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.Unavailable(err, "store operation timed out")
	default:
		return pkgerrors.WithStack(err)
	}
}
