package middleware

import (
	"net/http"
	"strings"

	"taskclinic/backend/internal/apperrors"
	"taskclinic/backend/internal/models"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// TokenVerifier resolves a bearer token to the identity it carries.
type TokenVerifier interface {
	Verify(token string) (models.Caller, error)
}

// Authenticate rejects the request with 401 unless it carries a valid
// bearer token, and stores the resolved caller on the context.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "missing_token",
				"message": "Authorization header is required",
			})
			return
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token_format",
				"message": "Authorization header must use Bearer token",
			})
			return
		}

		caller, err := verifier.Verify(strings.TrimSpace(tokenStr))
		if err != nil {
			appErr := apperrors.From(err)
			if appErr.Kind != apperrors.KindAuthentication {
				appErr = apperrors.Authentication("invalid_token", "Token validation failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   appErr.Code,
				"message": appErr.Message,
			})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFrom returns the identity stored by Authenticate.
func CallerFrom(c *gin.Context) (models.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return models.Caller{}, false
	}
	caller, ok := v.(models.Caller)
	return caller, ok
}

// SetCaller stores an identity as Authenticate would.
func SetCaller(c *gin.Context, caller models.Caller) {
	c.Set(callerKey, caller)
}
