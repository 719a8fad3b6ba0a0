package middleware

import (
	stderrors "errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/inventory-core/pkg/auth"
	"github.com/ledgerline/inventory-core/pkg/errors"
	"github.com/ledgerline/inventory-core/pkg/logging"
)

// BearerAuth validates the Authorization header and stores the caller's id
// and role on the request
func BearerAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			AbortWithAppError(c, errors.ErrUnauthorized("authorization header required"))
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			AbortWithAppError(c, errors.ErrUnauthorized("authorization header must be: Bearer <token>"))
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			message := "invalid token"
			if stderrors.Is(err, auth.ErrExpiredToken) {
				message = "token expired"
			}
			AbortWithAppError(c, errors.ErrUnauthorized(message))
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserRole, claims.Role)
		c.Request = c.Request.WithContext(logging.ContextWithUserID(c.Request.Context(), claims.UserID))

		c.Next()
	}
}

// RequireRole allows the request only when BearerAuth stored one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextKeyUserRole)
		if role == "" {
			AbortWithAppError(c, errors.ErrUnauthorized(""))
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		AbortWithAppError(c, errors.ErrForbidden("insufficient permissions"))
	}
}

// GetUserID returns the authenticated caller, or "".
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
