// Package middleware holds the gin middleware shared by the API routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/service"
)

const claimsKey = "agentsynergy_claims"

// Authenticator checks a bearer token and that its user still exists and
// is active.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Claims, error)
}

// SetClaims stores the authenticated caller in the gin context.
func SetClaims(c *gin.Context, claims *service.Claims) {
	c.Set(claimsKey, claims)
}

// GetClaims returns the authenticated caller, or nil.
func GetClaims(c *gin.Context) *service.Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*service.Claims); ok {
			return claims
		}
	}
	return nil
}

// UserID returns the authenticated caller's id, or "".
func UserID(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// RequireAuth rejects requests without a valid bearer token, or whose user
// is gone or deactivated, with 401 and a WWW-Authenticate challenge.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			unauthorized(c, "Not authenticated")
			return
		}
		claims, err := a.Authenticate(c.Request.Context(), token)
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrAccountInactive):
			unauthorized(c, "Could not validate credentials")
			return
		case err != nil:
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
				Code:    http.StatusInternalServerError,
				Message: "Failed to authenticate",
			})
			return
		}
		SetClaims(c, claims)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{Code: http.StatusUnauthorized, Message: msg})
}

// extractBearerToken reads "Authorization: Bearer <token>"; the scheme is
// case-insensitive.
func extractBearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
