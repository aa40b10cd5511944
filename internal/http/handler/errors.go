package handler

import (
	"errors"
	"net/http"

	apperrors "docvault/pkg/errors"

	"github.com/labstack/echo/v4"
)

// MapToPublicError maps internal errors to public-facing HTTP status codes
// and messages. Validation details pass through; everything else stays
// generic so internals never leak.
func MapToPublicError(err error) (int, string) {
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		if errors.As(err, &appErr) {
			return http.StatusBadRequest, appErr.Message
		}
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "resource conflict"
	case errors.Is(err, apperrors.ErrRevoked):
		return http.StatusGone, "share revoked"
	case errors.Is(err, apperrors.ErrExpired):
		return http.StatusGone, "share expired"
	case errors.Is(err, apperrors.ErrBlobMissing):
		// Metadata exists but the stored content is gone. Distinct from 404
		// so storage divergence is visible to operators and clients alike.
		return http.StatusBadGateway, "stored content unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondWithMappedError responds with a mapped error, preventing
// information disclosure.
func RespondWithMappedError(c echo.Context, err error) error {
	status, msg := MapToPublicError(err)
	return respondError(c, status, msg)
}
