package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"docvault/internal/auth"
	"docvault/internal/domain/file"
	"docvault/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type VersionHandler struct {
	versions VersionManager
}

func NewVersionHandler(versions VersionManager) *VersionHandler {
	return &VersionHandler{versions: versions}
}

// Upload appends a new version from a multipart form. Without activate=true
// the new version is a draft and served content does not change.
func (h *VersionHandler) Upload(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	fileID, err := uuid.Parse(c.Param(paramFileID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFileID)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgMissingFile)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgMissingFile)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgMissingFile)
	}

	input := service.UploadVersionInput{
		FileID:   fileID,
		Filename: strings.TrimSpace(fileHeader.Filename),
		Data:     data,
	}
	if activate, err := strconv.ParseBool(c.FormValue("activate")); err == nil {
		input.Activate = activate
	}
	if final, err := strconv.ParseBool(c.FormValue("final")); err == nil {
		input.IsFinal = final
	}

	version, err := h.versions.UploadVersion(c.Request().Context(), userID, input)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusCreated, version)
}

func (h *VersionHandler) List(c echo.Context) error {
	fileID, err := uuid.Parse(c.Param(paramFileID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFileID)
	}

	versions, err := h.versions.ListVersions(c.Request().Context(), fileID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if versions == nil {
		versions = []*file.FileVersion{}
	}
	return c.JSON(http.StatusOK, versions)
}

func (h *VersionHandler) Restore(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	versionID, err := uuid.Parse(c.Param(paramVersionID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidVersionID)
	}

	if err := h.versions.RestoreVersion(c.Request().Context(), userID, versionID); err != nil {
		return RespondWithMappedError(c, err)
	}

	return respondMessage(c, http.StatusOK, msgVersionRestored)
}

func (h *VersionHandler) MarkFinal(c echo.Context) error {
	versionID, err := uuid.Parse(c.Param(paramVersionID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidVersionID)
	}

	if err := h.versions.MarkVersionFinal(c.Request().Context(), versionID); err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *VersionHandler) Download(c echo.Context) error {
	versionID, err := uuid.Parse(c.Param(paramVersionID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidVersionID)
	}

	version, data, err := h.versions.DownloadVersion(c.Request().Context(), versionID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, fmt.Sprintf("v%d-%s", version.VersionNumber, version.ID)))
	return c.Blob(http.StatusOK, defaultDownloadType, data)
}
