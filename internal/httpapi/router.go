// Package httpapi implements spec §6's REST Access Plane: tenant
// onboarding, room management, and grant-token issuance, bound to its
// own gin.Engine on the configured API port, separate from the
// signaling port's WebSocket upgrade handler.
package httpapi

import (
	"github.com/Ashish23jun/One-Call/internal/config"
	"github.com/Ashish23jun/One-Call/internal/grantsvc"
	"github.com/Ashish23jun/One-Call/internal/presence"
	"github.com/Ashish23jun/One-Call/internal/roomstore"
	"github.com/Ashish23jun/One-Call/internal/tenantstore"
	"github.com/gin-gonic/gin"
)

// timeFormat renders timestamps the way the wire examples in spec §6
// show them: RFC 3339.
const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// tenantAuthStore is satisfied by a tenantstore.Store+Creator, the
// combination the REST surface needs: Store for header auth, Creator
// for POST /apps.
type tenantAuthStore interface {
	tenantstore.Store
	tenantstore.Creator
}

type server struct {
	tenants    tenantAuthStore
	rooms      roomstore.Store
	issuer     *grantsvc.Issuer
	registry   *presence.Registry
	defaultTTL string
}

// NewRouter wires the gin.Engine for the Access Plane, matching the
// teacher's SetupRouter composition: gin.New() plus conditional
// request logging in debug mode, always with gin.Recovery().
func NewRouter(cfg *config.Config, tenants tenantAuthStore, rooms roomstore.Store, issuer *grantsvc.Issuer, registry *presence.Registry) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	s := &server{
		tenants:    tenants,
		rooms:      rooms,
		issuer:     issuer,
		registry:   registry,
		defaultTTL: cfg.DefaultGrantTTL,
	}

	r.POST("/apps", s.handleCreateApp)
	r.GET("/apps", s.handleListApps)

	authed := r.Group("/rooms", tenantAuth(tenants))
	authed.POST("", s.handleCreateRoom)
	authed.GET("", s.handleListRooms)
	authed.GET("/:roomId", s.handleGetRoom)
	authed.POST("/:roomId/token", s.handleIssueToken)

	return r
}
