package api

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/kbukum/trascrivi/errors"
	"github.com/kbukum/trascrivi/logger"
	"github.com/kbukum/trascrivi/server"
	"github.com/kbukum/trascrivi/storage"
)

const (
	uploadFormField = "file"
	maxExtLength    = 10
)

// UploadResponse is the POST /api/upload body.
type UploadResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Upload stores the multipart "file" part at <userId>/<uuid><ext>. Only
// audio/* content types are accepted.
func (h *Handler) Upload(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}

	fh, err := c.FormFile(uploadFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			server.RespondWithError(c, err)
		case errors.Is(err, http.ErrMissingFile):
			server.RespondWithError(c, apperrors.MissingField(uploadFormField))
		default:
			server.RespondWithError(c, apperrors.InvalidInput(uploadFormField, "expected a multipart/form-data body").WithCause(err))
		}
		return
	}

	contentType := fh.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "audio/") {
		server.RespondWithError(c, apperrors.UnsupportedMediaType(contentType))
		return
	}

	f, err := fh.Open()
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}
	defer f.Close()

	path := uid + "/" + uuid.NewString() + audioExt(fh.Filename)
	obj, err := h.storage.Storage().Upload(c.Request.Context(), path, f, storage.UploadOptions{ContentType: mediaType})
	if err != nil {
		h.log.WithContext(c.Request.Context()).Error("Upload failed", map[string]interface{}{
			logger.FieldUserID: uid,
			"path":             path,
			logger.FieldError:  err.Error(),
		})
		server.RespondWithError(c, apperrors.StorageFailed("upload", err))
		return
	}

	h.log.WithContext(c.Request.Context()).Info("Audio uploaded", map[string]interface{}{
		logger.FieldUserID: uid,
		"path":             obj.Path,
		"size":             obj.Size,
		"content_type":     mediaType,
	})
	server.RespondCreated(c, UploadResponse{Path: obj.Path, URL: obj.URL})
}

// audioExt returns the lower-cased extension of name when it is short and
// alphanumeric, "" otherwise.
func audioExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) < 2 || len(ext) > maxExtLength {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
