package httpapi

import (
	"net/http"

	"github.com/Ashish23jun/One-Call/internal/apperr"
	"github.com/Ashish23jun/One-Call/internal/domain"
	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Name            string `json:"name"`
	MaxParticipants int    `json:"maxParticipants"`
}

type roomResponse struct {
	ID              string `json:"id"`
	TenantID        string `json:"appId"`
	Name            string `json:"name"`
	MaxParticipants int    `json:"maxParticipants"`
	CreatedAt       string `json:"createdAt"`
	MemberCount     int    `json:"memberCount"`
}

func (s *server) toRoomResponse(r *domain.Room) roomResponse {
	return roomResponse{
		ID:              r.ID,
		TenantID:        r.TenantID,
		Name:            r.Name,
		MaxParticipants: r.MaxParticipants,
		CreatedAt:       r.CreatedAt.Format(timeFormat),
		MemberCount:     s.registry.RoomMemberCount(r.TenantID, r.ID),
	}
}

// handleCreateRoom implements POST /rooms. The room's configured
// capacity is pushed into the Presence Registry immediately, so the
// first Admit against this room-id sees the tenant's chosen cap
// rather than the registry's own implicit default.
func (s *server) handleCreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		respondError(c, apperr.New(apperr.Validation, apperr.CodeInvalidMessage, "name is required"))
		return
	}

	tenant := tenantFromContext(c)
	room, err := s.rooms.Create(c.Request.Context(), tenant.ID, req.Name, req.MaxParticipants)
	if err != nil {
		respondError(c, err)
		return
	}
	s.registry.SetRoomCapacity(room.ID, room.TenantID, room.MaxParticipants)

	c.JSON(http.StatusCreated, s.toRoomResponse(room))
}

// handleListRooms implements GET /rooms, tenant-scoped.
func (s *server) handleListRooms(c *gin.Context) {
	tenant := tenantFromContext(c)
	rooms, err := s.rooms.ListByTenant(c.Request.Context(), tenant.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, s.toRoomResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// handleGetRoom implements GET /rooms/:roomId, tenant-scoped: a room
// owned by another tenant is reported not-found, never forbidden, so
// the endpoint doesn't leak room existence across tenants.
func (s *server) handleGetRoom(c *gin.Context) {
	tenant := tenantFromContext(c)
	room, err := s.rooms.Get(c.Request.Context(), c.Param("roomId"))
	if err != nil || room.TenantID != tenant.ID {
		respondError(c, apperr.New(apperr.NotFound, apperr.CodeNotFound, "room not found"))
		return
	}
	c.JSON(http.StatusOK, s.toRoomResponse(room))
}
