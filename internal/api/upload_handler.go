package api

import (
	"fmt"
	"mime"
	"net/http"
	"strings"

	"fittrack/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadHandler issues presigned URLs for direct-to-bucket image
// transfers; the API itself never proxies file bytes.
type UploadHandler struct {
	fileStorage storage.FileStorage
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(fileStorage storage.FileStorage) *UploadHandler {
	return &UploadHandler{fileStorage: fileStorage}
}

type PresignUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

type PresignUploadResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
}

type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
	ObjectKey   string `json:"object_key"`
}

// PresignUpload generates a PUT URL plus the object key the client
// should store alongside the exercise or entry.
func (h *UploadHandler) PresignUpload(c *gin.Context) {
	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if !strings.HasPrefix(req.ContentType, "image/") {
		abortWithError(c, http.StatusBadRequest, "Only image content types are accepted.")
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	objectKey := fmt.Sprintf("uploads/%d/%s%s", userID, uuid.NewString(), extensionFor(req.ContentType))

	uploadURL, err := h.fileStorage.GeneratePresignedUploadURL(
		c.Request.Context(), objectKey, req.ContentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL.")
		return
	}

	c.JSON(http.StatusOK, PresignUploadResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	})
}

// DownloadURL generates a temporary GET URL for a stored object key.
func (h *UploadHandler) DownloadURL(c *gin.Context) {
	objectKey := c.Query("key")
	if objectKey == "" {
		abortWithError(c, http.StatusBadRequest, "Missing 'key' query parameter.")
		return
	}

	if _, err := getUserIDFromContext(c); err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	downloadURL, err := h.fileStorage.GeneratePresignedDownloadURL(
		c.Request.Context(), objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL.")
		return
	}

	c.JSON(http.StatusOK, DownloadURLResponse{
		DownloadURL: downloadURL,
		ObjectKey:   objectKey,
	})
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
