package domain

import "time"

// DefaultMaxParticipants is the MVP cap named in spec §3: a room with
// no explicit cap admits exactly two peers.
const DefaultMaxParticipants = 2

// Room is a call container owned by exactly one tenant for its entire
// lifetime. room-id need only be unique within its owning tenant.
type Room struct {
	ID              string    `json:"id"`
	TenantID        string    `json:"appId"`
	Name            string    `json:"name"`
	MaxParticipants int       `json:"maxParticipants"`
	CreatedAt       time.Time `json:"createdAt"`
}
