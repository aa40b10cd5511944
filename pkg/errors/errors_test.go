package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsWrapSentinels(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		code     string
	}{
		{NotFound("file not found"), ErrNotFound, "NOT_FOUND"},
		{Forbidden("nope"), ErrForbidden, "FORBIDDEN"},
		{ValidationFailed("bad input"), ErrValidation, "VALIDATION_FAILED"},
		{BlobMissing("gone"), ErrBlobMissing, "BLOB_MISSING"},
		{Conflict("dup"), ErrConflict, "CONFLICT"},
		{Expired("late"), ErrExpired, "EXPIRED"},
		{Revoked("pulled"), ErrRevoked, "REVOKED"},
	}

	for _, tt := range tests {
		assert.ErrorIs(t, tt.err, tt.sentinel)

		var appErr *AppError
		assert.ErrorAs(t, tt.err, &appErr)
		assert.Equal(t, tt.code, appErr.Code)
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NotFound("inner"))
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrForbidden)
}

func TestAppError_Message(t *testing.T) {
	plain := &AppError{Code: "X", Message: "just a message"}
	assert.Equal(t, "just a message", plain.Error())

	withCause := InternalServer("something broke", errors.New("root cause"))
	assert.Contains(t, withCause.Error(), "something broke")
	assert.Contains(t, withCause.Error(), "root cause")
}

func TestBlobMissingIsDistinctFromNotFound(t *testing.T) {
	err := BlobMissing("metadata exists, blob gone")
	assert.NotErrorIs(t, err, ErrNotFound)
}
