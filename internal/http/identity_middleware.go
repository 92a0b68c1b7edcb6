package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"identity-api/internal/domain"
	"identity-api/internal/service"
)

const principalKey = "auth_principal"

type identityResolver interface {
	ResolveHeader(ctx context.Context, header string) (domain.Principal, error)
}

// RequireIdentity resuelve el bearer token y guarda el Principal en el contexto.
func RequireIdentity(logger *zap.Logger, resolver identityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := resolver.ResolveHeader(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				c.Header("WWW-Authenticate", "Bearer")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthorizedMessage(err)})
				return
			}
			logger.Error("resolve identity failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not resolve identity"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// GetPrincipal obtiene el Principal resuelto por RequireIdentity.
func GetPrincipal(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		return "invalid token"
	case errors.Is(err, service.ErrAccountNotFound):
		return "user not found"
	default:
		return "not authenticated"
	}
}
