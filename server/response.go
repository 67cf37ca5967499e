package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/trascrivi/errors"
	"github.com/kbukum/trascrivi/logger"
)

// RespondWithError writes err as the JSON error envelope tagged with the
// request ID. An *apperrors.AppError keeps its status and code, a body over
// the size limit becomes 413 and anything else a generic 500.
func RespondWithError(c *gin.Context, err error) {
	status, body := statusAndBody(err)
	c.JSON(status, body.WithRequestID(requestID(c)))
}

// AbortWithError is RespondWithError that also stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	status, body := statusAndBody(err)
	c.AbortWithStatusJSON(status, body.WithRequestID(requestID(c)))
}

func requestID(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}
	return logger.RequestIDFromContext(c.Request.Context())
}

func statusAndBody(err error) (int, apperrors.ErrorResponse) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr.HTTPStatus, appErr.ToResponse()
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		appErr := apperrors.PayloadTooLarge(tooLarge.Limit)
		return appErr.HTTPStatus, appErr.ToResponse()
	}
	return http.StatusInternalServerError, apperrors.Internal(err).ToResponse()
}

// RespondOK sends a 200 with body as-is.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// RespondCreated sends a 201 with body as-is.
func RespondCreated(c *gin.Context, body any) {
	c.JSON(http.StatusCreated, body)
}
