package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hyperskill-app/hyperskill-api/internal/middleware"
	"github.com/hyperskill-app/hyperskill-api/internal/models"
)

// currentClaims extracts the authenticated identity from the request
// context. Returns nil when the route was reached without JWT middleware.
func currentClaims(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
