package api

import (
	"net/http"
	"strings"

	"api_ventas/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ctxClaimsKey  = "auth_claims"
	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// RequireAuth validates the bearer credential and injects the caller's
// identity into the request context. Role checks happen per handler.
func RequireAuth(tokens *auth.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderKey)
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Token de autenticación requerido",
			})
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			logger.Warn("token validation failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Token inválido o expirado",
			})
			return
		}

		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

// callerClaims retrieves the authenticated identity set by RequireAuth.
func callerClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
