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

type FileHandler struct {
	files    FileManager
	searcher Searcher
}

func NewFileHandler(files FileManager, searcher Searcher) *FileHandler {
	return &FileHandler{files: files, searcher: searcher}
}

// Upload accepts a multipart form: the blob under "file" plus optional
// metadata fields (description, encrypted, password, users).
func (h *FileHandler) Upload(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	folderID, err := uuid.Parse(c.Param(paramFolderID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFolderID)
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

	input := service.UploadInput{
		FolderID:    folderID,
		Filename:    strings.TrimSpace(fileHeader.Filename),
		MimeType:    fileHeader.Header.Get(echo.HeaderContentType),
		Data:        data,
		Description: c.FormValue("description"),
		Password:    c.FormValue("password"),
	}
	if encrypted, err := strconv.ParseBool(c.FormValue("encrypted")); err == nil {
		input.Encrypted = encrypted
	}
	for _, raw := range strings.Split(c.FormValue("users"), ",") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			if id, err := uuid.Parse(trimmed); err == nil {
				input.Users = input.Users.Add(id)
			}
		}
	}

	created, err := h.files.Upload(c.Request().Context(), userID, input)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *FileHandler) Get(c echo.Context) error {
	fileID, err := uuid.Parse(c.Param(paramFileID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFileID)
	}

	f, err := h.files.GetFile(c.Request().Context(), fileID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, f)
}

func (h *FileHandler) ListByFolder(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	folderID, err := uuid.Parse(c.Param(paramFolderID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFolderID)
	}

	filter := file.ListFilesFilter{
		FolderID:     folderID,
		NameContains: c.QueryParam(queryName),
	}
	if limit, err := strconv.Atoi(c.QueryParam(queryLimit)); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.QueryParam(queryOffset)); err == nil {
		filter.Offset = offset
	}

	files, err := h.files.ListByFolder(c.Request().Context(), userID, filter)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	if files == nil {
		files = []*file.File{}
	}
	return c.JSON(http.StatusOK, files)
}

type updateFileRequest struct {
	Filename    *string `json:"filename"`
	Description *string `json:"description"`
	Encrypted   *bool   `json:"encrypted"`
	Password    *string `json:"password"`
}

func (h *FileHandler) Update(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	fileID, err := uuid.Parse(c.Param(paramFileID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFileID)
	}

	var req updateFileRequest
	if err := c.Bind(&req); err != nil {
		return handleHTTPError(c, err)
	}

	updated, err := h.files.Update(c.Request().Context(), userID, fileID, service.UpdateFileRequest{
		Filename:    req.Filename,
		Description: req.Description,
		Encrypted:   req.Encrypted,
		Password:    req.Password,
	})
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *FileHandler) Delete(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	fileID, err := uuid.Parse(c.Param(paramFileID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFileID)
	}

	if err := h.files.Delete(c.Request().Context(), userID, fileID); err != nil {
		return RespondWithMappedError(c, err)
	}

	return respondMessage(c, http.StatusOK, msgFileDeleted)
}

func (h *FileHandler) Download(c echo.Context) error {
	fileID, err := uuid.Parse(c.Param(paramFileID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFileID)
	}

	f, data, err := h.files.DownloadActive(c.Request().Context(), fileID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, f.Filename))
	return c.Blob(http.StatusOK, downloadContentType(f.MimeType), data)
}

// Preview serves renderable content inline instead of as an attachment.
func (h *FileHandler) Preview(c echo.Context) error {
	fileID, err := uuid.Parse(c.Param(paramFileID))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidFileID)
	}

	f, data, err := h.files.Preview(c.Request().Context(), fileID)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`inline; filename=%q`, f.Filename))
	return c.Blob(http.StatusOK, f.MimeType, data)
}

func (h *FileHandler) Search(c echo.Context) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	query := strings.TrimSpace(c.QueryParam(queryQuery))
	if query == "" {
		return respondError(c, http.StatusBadRequest, msgMissingQuery)
	}

	results, err := h.searcher.Search(c.Request().Context(), userID, query)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	return c.JSON(http.StatusOK, results)
}

func downloadContentType(mimeType string) string {
	if mimeType == "" {
		return defaultDownloadType
	}
	return mimeType
}
