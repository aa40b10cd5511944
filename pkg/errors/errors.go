package errors

import (
	"errors"
	"fmt"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound    = errors.New("resource not found")
	ErrForbidden   = errors.New("forbidden")
	ErrValidation  = errors.New("validation error")
	ErrBlobMissing = errors.New("blob missing from storage")
	ErrConflict    = errors.New("resource already exists")
	ErrExpired     = errors.New("resource expired")
	ErrRevoked     = errors.New("resource revoked")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: msg, Err: ErrNotFound}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Err: ErrForbidden}
}

func ValidationFailed(msg string) *AppError {
	return &AppError{Code: "VALIDATION_FAILED", Message: msg, Err: ErrValidation}
}

// BlobMissing marks storage/metadata divergence: a metadata row exists but
// the referenced blob does not. Kept distinct from NotFound so it surfaces
// as a storage inconsistency instead of a missing file.
func BlobMissing(msg string) *AppError {
	return &AppError{Code: "BLOB_MISSING", Message: msg, Err: ErrBlobMissing}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Err: ErrConflict}
}

func Expired(msg string) *AppError {
	return &AppError{Code: "EXPIRED", Message: msg, Err: ErrExpired}
}

func Revoked(msg string) *AppError {
	return &AppError{Code: "REVOKED", Message: msg, Err: ErrRevoked}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: err}
}
