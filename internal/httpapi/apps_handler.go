package httpapi

import (
	"net/http"

	"github.com/Ashish23jun/One-Call/internal/apperr"
	"github.com/gin-gonic/gin"
)

type createAppRequest struct {
	Name string `json:"name"`
}

type appResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Secret    string `json:"secret,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// handleCreateApp implements POST /apps, the only unauthenticated
// write in the REST surface: this is how a tenant first obtains
// credentials.
func (s *server) handleCreateApp(c *gin.Context) {
	var req createAppRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		respondError(c, apperr.New(apperr.Validation, apperr.CodeInvalidMessage, "name is required"))
		return
	}

	tenant, secret, err := s.tenants.CreateTenant(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Secret:    secret,
		CreatedAt: tenant.CreatedAt.Format(timeFormat),
	})
}

// handleListApps implements GET /apps.
func (s *server) handleListApps(c *gin.Context) {
	tenants, err := s.tenants.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]appResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, appResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt.Format(timeFormat)})
	}
	c.JSON(http.StatusOK, out)
}
