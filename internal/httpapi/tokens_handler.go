package httpapi

import (
	"net/http"

	"github.com/Ashish23jun/One-Call/internal/apperr"
	"github.com/Ashish23jun/One-Call/internal/domain"
	"github.com/gin-gonic/gin"
)

type issueTokenRequest struct {
	UserID    string      `json:"userId"`
	Role      domain.Role `json:"role"`
	ExpiresIn string      `json:"expiresIn"`
}

type issueTokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// handleIssueToken implements POST /rooms/:roomId/token, delegating
// the actual issuance logic to grantsvc.Issuer per spec §4.B.
func (s *server) handleIssueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.New(apperr.Validation, apperr.CodeInvalidMessage, "invalid request body"))
		return
	}

	ttl := req.ExpiresIn
	if ttl == "" {
		ttl = s.defaultTTL
	}

	tenant := tenantFromContext(c)
	token, expiresAt, err := s.issuer.IssueGrant(c.Request.Context(), tenant.ID, c.Param("roomId"), req.UserID, req.Role, ttl)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issueTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(timeFormat),
	})
}
