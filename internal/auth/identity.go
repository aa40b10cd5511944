// Package auth resolves the caller's identity. Authentication itself is an
// upstream concern; the gateway forwards the verified user id in a header and
// this package only extracts it.
package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// HeaderUserID carries the verified caller id set by the auth gateway.
	HeaderUserID = "X-User-ID"

	contextKeyUserID = "user_id"

	msgMissingIdentity = "missing caller identity"
	msgInvalidIdentity = "invalid caller identity"
)

// RequireIdentity rejects requests without a parseable caller id and stashes
// it on the request context for handlers.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderUserID)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgMissingIdentity)
			}

			userID, err := uuid.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidIdentity)
			}

			c.Set(contextKeyUserID, userID)
			return next(c)
		}
	}
}

// GetUserID returns the caller id stashed by RequireIdentity.
func GetUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(contextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, msgMissingIdentity)
	}
	return userID, nil
}
