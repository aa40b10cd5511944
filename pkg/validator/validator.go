// Package validator holds input validation helpers shared by the HTTP and
// service layers.
package validator

import (
	"fmt"
	"strings"
)

const (
	maxFileNameLength = 255
	minPasswordLength = 8
)

var forbiddenNameChars = []string{"/", "\\", "\x00"}

// FileName rejects empty, oversized, and path-hostile names. The name is
// display metadata only; storage paths are derived, never taken from input.
func FileName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("filename must not be empty")
	}
	if len(trimmed) > maxFileNameLength {
		return fmt.Errorf("filename must not exceed %d characters", maxFileNameLength)
	}
	for _, ch := range forbiddenNameChars {
		if strings.Contains(trimmed, ch) {
			return fmt.Errorf("filename contains forbidden character")
		}
	}
	return nil
}

// FileSize rejects empty payloads and payloads over the configured ceiling.
func FileSize(size, maxSize int64) error {
	if size <= 0 {
		return fmt.Errorf("file must not be empty")
	}
	if size > maxSize {
		return fmt.Errorf("file size %d exceeds limit of %d bytes", size, maxSize)
	}
	return nil
}

// Password enforces the minimum length for file encryption passwords.
func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}
