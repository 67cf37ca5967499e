package api

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/trascrivi/auth"
	"github.com/kbukum/trascrivi/auth/authctx"
	apperrors "github.com/kbukum/trascrivi/errors"
	"github.com/kbukum/trascrivi/server"
)

// MeResponse is the GET /api/me body.
type MeResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Me returns the authenticated caller.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := authctx.Get[*auth.Claims](c.Request.Context())
	if !ok {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}
	server.RespondOK(c, MeResponse{UserID: claims.UserID(), Email: claims.Email})
}

// userID returns the authenticated caller's ID or "" when unauthenticated.
func userID(c *gin.Context) string {
	if claims, ok := authctx.Get[*auth.Claims](c.Request.Context()); ok {
		return claims.UserID()
	}
	return ""
}
