package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/trascrivi/errors"
	"github.com/kbukum/trascrivi/logger"
	"github.com/kbukum/trascrivi/server"
	"github.com/kbukum/trascrivi/storage"
	"github.com/kbukum/trascrivi/transcription"
	"github.com/kbukum/trascrivi/validation"
)

// TranscribeRequest is the POST /api/transcribe body. Exactly one of AudioURL
// and Path is set.
type TranscribeRequest struct {
	AudioURL string `json:"audioUrl" validate:"omitempty,http_url,max=2048"`
	Path     string `json:"path" validate:"omitempty,max=512"`
}

// TranscribeResponse is the success body. Word timings are not exposed.
type TranscribeResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// gatewayError is the failure body for errors that are not *transcription.Error.
type gatewayError struct {
	Error gatewayErrorBody `json:"error"`
}

type gatewayErrorBody struct {
	Message string `json:"message"`
}

// Transcribe resolves the request to an audio URL and runs the selected
// backend on it.
func (h *Handler) Transcribe(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}

	var req TranscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, bindError(err))
		return
	}
	if err := validateTranscribeRequest(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	audioURL := req.AudioURL
	if req.Path != "" {
		var err error
		if audioURL, err = h.resolvePath(c, uid, req.Path); err != nil {
			server.RespondWithError(c, err)
			return
		}
	}

	svc, err := h.backend.Get()
	if err != nil {
		h.log.WithContext(ctx).Error("Transcription backend unavailable", logger.ErrorFields("transcribe", err))
		c.JSON(http.StatusBadGateway, gatewayError{Error: gatewayErrorBody{Message: err.Error()}})
		return
	}

	start := time.Now()
	result, err := svc.Transcribe(ctx, audioURL)
	if err != nil {
		fields := map[string]interface{}{
			logger.FieldUserID:   uid,
			logger.FieldBackend:  svc.Name(),
			logger.FieldDuration: time.Since(start).Milliseconds(),
			logger.FieldError:    err.Error(),
		}
		if te, ok := transcription.AsError(err); ok {
			fields[logger.FieldCode] = string(te.Code)
			h.log.WithContext(ctx).Warn("Transcription failed", fields)
			server.RespondWithError(c, apperrors.Upstream(string(te.Code), te.Message, te.Retryable, err))
			return
		}
		h.log.WithContext(ctx).Error("Transcription failed", fields)
		c.JSON(http.StatusBadGateway, gatewayError{Error: gatewayErrorBody{Message: err.Error()}})
		return
	}

	h.log.WithContext(ctx).Info("Transcription completed", map[string]interface{}{
		logger.FieldUserID:   uid,
		logger.FieldBackend:  svc.Name(),
		logger.FieldDuration: time.Since(start).Milliseconds(),
		"words":              len(result.Words),
	})
	server.RespondOK(c, TranscribeResponse{Text: result.Text, Confidence: result.Confidence})
}

func validateTranscribeRequest(req TranscribeRequest) error {
	hasURL, hasPath := strings.TrimSpace(req.AudioURL) != "", strings.TrimSpace(req.Path) != ""
	if err := validation.New().
		Custom(hasURL || hasPath, "audioUrl", "one of audioUrl or path is required").
		Custom(!(hasURL && hasPath), "path", "must not be combined with audioUrl").
		Validate(); err != nil {
		return err
	}
	return validation.Validate(req)
}

// resolvePath checks that path belongs to uid and exists, then returns its
// public URL.
func (h *Handler) resolvePath(c *gin.Context, uid, path string) (string, error) {
	clean, err := storage.CleanPath(path)
	if err != nil {
		return "", apperrors.InvalidInput("path", err.Error())
	}
	if !strings.HasPrefix(clean, uid+"/") {
		return "", apperrors.Forbidden("The path does not belong to the authenticated user.")
	}

	store := h.storage.Storage()
	ok, err := store.Exists(c.Request.Context(), clean)
	if err != nil {
		return "", apperrors.StorageFailed("exists", err)
	}
	if !ok {
		return "", apperrors.NotFound("audio file", clean)
	}
	return store.PublicURL(clean), nil
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return apperrors.InvalidInput("body", "expected a JSON object").WithCause(err)
}
