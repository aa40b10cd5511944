package handler

const (
	jsonKeyError   = "error"
	jsonKeyMessage = "message"

	paramFileID    = "fileId"
	paramVersionID = "versionId"
	paramShareID   = "shareId"
	paramFolderID  = "folderId"
	paramToken     = "token"

	queryName   = "name"
	queryLimit  = "limit"
	queryOffset = "offset"
	queryQuery  = "q"

	msgInvalidFileID    = "invalid file id"
	msgInvalidVersionID = "invalid version id"
	msgInvalidShareID   = "invalid share id"
	msgInvalidFolderID  = "invalid folder id"
	msgMissingFile      = "multipart file field is required"
	msgMissingQuery     = "query parameter q is required"
	msgFileDeleted      = "file deleted"
	msgVersionRestored  = "version restored"
	msgShareRevoked     = "share revoked"

	defaultDownloadType = "application/octet-stream"
)
