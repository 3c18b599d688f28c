package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/taskhive/taskhive/internal/middleware"
	apperrors "github.com/taskhive/taskhive/pkg/errors"
)

// currentUserID extracts the authenticated user from the request context.
func currentUserID(c *gin.Context) (string, error) {
	value, ok := c.Get(middleware.CtxUserIDKey)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}

	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}
