package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// respondError writes the uniform {"error": message} failure body shared by
// every handler.
func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

// respondMessage acknowledges operations that return no resource body, such
// as deletes and restores.
func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyMessage: message})
}

// handleHTTPError renders framework-raised errors (binding failures, the
// identity middleware's 401s) through the same JSON shape as domain errors.
func handleHTTPError(c echo.Context, err error) error {
	if he, ok := err.(*echo.HTTPError); ok {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		return respondError(c, he.Code, msg)
	}

	return respondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
