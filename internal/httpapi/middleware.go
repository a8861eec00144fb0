package httpapi

import (
	"github.com/Ashish23jun/One-Call/internal/apperr"
	"github.com/Ashish23jun/One-Call/internal/domain"
	"github.com/Ashish23jun/One-Call/internal/tenantstore"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const tenantContextKey = "tenant"

// respondError writes the {error, message} envelope spec §6/§7 define
// for every REST failure, at the HTTP status its Kind maps to. An
// internal error is logged with its original message; in release mode
// the client sees a generic message instead.
func respondError(c *gin.Context, err error) {
	ae := apperr.As(err)
	msg := ae.Message
	if ae.Kind == apperr.Internal {
		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("internal error")
		if gin.Mode() == gin.ReleaseMode {
			msg = "internal error"
		}
	}
	c.JSON(ae.Kind.HTTPStatus(), gin.H{"error": ae.Code, "message": msg})
}

// tenantAuth authenticates the x-app-id/x-app-secret header pair
// against the tenant store, per spec §6's "header-based auth uses
// constant-time comparison" — enforced inside tenantstore.MemoryStore
// itself, so this middleware only wires the headers through.
func tenantAuth(store tenantstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader("x-app-id")
		secret := c.GetHeader("x-app-secret")
		if tenantID == "" || secret == "" {
			respondError(c, apperr.New(apperr.Unauthorized, apperr.CodeInvalidToken, "missing x-app-id or x-app-secret"))
			c.Abort()
			return
		}

		tenant, err := store.VerifySecret(c.Request.Context(), tenantID, secret)
		if err != nil {
			respondError(c, apperr.New(apperr.Unauthorized, apperr.CodeInvalidToken, "invalid tenant credentials"))
			c.Abort()
			return
		}

		c.Set(tenantContextKey, tenant)
		c.Next()
	}
}

func tenantFromContext(c *gin.Context) *domain.Tenant {
	v, ok := c.Get(tenantContextKey)
	if !ok {
		return nil
	}
	t, ok := v.(*domain.Tenant)
	if !ok {
		return nil
	}
	return t
}
