package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "userId"

	errNoAuthHeader  = "missing Authorization header"
	errBadAuthHeader = "invalid Authorization header format"
	errBadToken      = "invalid or expired token"
)

// userIdMiddleware guards /api/v1. The device routes are not behind it.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		h.unauthorized(c, errNoAuthHeader, nil)
		return
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		h.unauthorized(c, errBadAuthHeader, nil)
		return
	}

	userId, err := h.services.ParseToken(strings.TrimSpace(token))
	if err != nil {
		h.unauthorized(c, errBadToken, err)
		return
	}

	c.Set(ctxUserID, userId)
	c.Next()
}

func (h *Handler) unauthorized(c *gin.Context, msg string, err error) {
	if h.log != nil {
		h.log.Infow("api_unauthorized", "path", c.FullPath(), "reason", msg, "err", err)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
