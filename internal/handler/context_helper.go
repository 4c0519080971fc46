package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/voltride-motors/dealership-api/internal/middleware"
	"github.com/voltride-motors/dealership-api/internal/models"
)

// claimsFromContext returns the authenticated user's claims, or nil when the
// request did not pass the JWT middleware.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
