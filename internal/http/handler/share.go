package handler

import (
	"fmt"
	"net/http"
	"time"

	"docvault/internal/auth"
	"docvault/internal/domain/share"
	"docvault/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ShareHandler struct {
	shares ShareManager
}

func NewShareHandler(shares ShareManager) *ShareHandler {
	return &ShareHandler{shares: shares}
}

type createShareRequest struct {
	GranteeID   string     `json:"grantee_id"`
	Permissions string     `json:"permissions"`
	Kind        string     `json:"kind"`
	ExpiresOn   *time.Time `json:"expires_on"`
}

func (h *ShareHandler) Create(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	fileID, err := uuid.Parse(c.Param(paramFileID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFileID)
	}

	var req createShareRequest
	if err := c.Bind(&req); err != nil {
		return handleHTTPError(c, err)
	}

	granteeID, err := uuid.Parse(req.GranteeID)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid grantee id")
	}

	created, err := h.shares.GrantShare(c.Request().Context(), userID, service.GrantShareInput{
		FileID:      fileID,
		GranteeID:   granteeID,
		Permissions: share.Permission(req.Permissions),
		Kind:        share.Kind(req.Kind),
		ExpiresOn:   req.ExpiresOn,
	})
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *ShareHandler) List(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	fileID, err := uuid.Parse(c.Param(paramFileID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFileID)
	}

	shares, err := h.shares.ListShares(c.Request().Context(), userID, fileID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if shares == nil {
		shares = []*share.FileShare{}
	}
	return c.JSON(http.StatusOK, shares)
}

func (h *ShareHandler) Revoke(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	shareID, err := uuid.Parse(c.Param(paramShareID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidShareID)
	}

	if err := h.shares.RevokeShare(c.Request().Context(), userID, shareID); err != nil {
		return RespondWithMappedError(c, err)
	}

	return respondMessage(c, http.StatusOK, msgShareRevoked)
}

// Download streams shared content by token. No identity required: the token
// is the capability.
func (h *ShareHandler) Download(c echo.Context) error {
	token := c.Param(paramToken)

	f, data, err := h.shares.DownloadShared(c.Request().Context(), token)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, f.Filename))
	return c.Blob(http.StatusOK, downloadContentType(f.MimeType), data)
}
