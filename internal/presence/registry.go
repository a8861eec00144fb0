// Package presence implements spec §4.C: the in-memory mapping of
// connections to peers and rooms to member sets, with atomic
// join/leave/disconnect. A single sync.Mutex guards both the forward
// index (peer -> room) and the reverse index (room -> members), which
// keeps every public operation observable-atomic per spec §5 without
// ever suspending while the lock is held.
package presence

import (
	"errors"
	"sync"

	"github.com/Ashish23jun/One-Call/internal/domain"
)

// ErrInternal is returned for programming errors: calling register
// twice for the same connection, or admit for a connection with no
// peer record.
var ErrInternal = errors.New("presence: internal error")

// ErrAlreadyAdmitted is returned by Admit when the connection is
// already a member of some room.
var ErrAlreadyAdmitted = errors.New("presence: already admitted")

// ErrTenantMismatch is returned by Admit when the room exists and its
// pinned tenant-id differs from the supplied tenant-id.
var ErrTenantMismatch = errors.New("presence: tenant mismatch")

// ErrRoomFull is returned by Admit when the room's member set is
// already at capacity.
var ErrRoomFull = errors.New("presence: room full")

// roomKey namespaces a room-id by its owning tenant, since spec §3
// only guarantees room-id uniqueness within a tenant but the
// registry's key space must be collision-free across tenants.
type roomKey struct {
	tenantID string
	roomID   string
}

type peer struct {
	connID   string
	roomID   string // "" until admitted
	tenantID string
	userID   string
}

type roomEntry struct {
	tenantID        string
	maxParticipants int
	members         map[string]struct{} // connection-id set
}

// Registry is the Presence Registry of spec §4.C.
type Registry struct {
	mu    sync.Mutex
	peers map[string]*peer              // connection-id -> peer
	rooms map[roomKey]*roomEntry
}

// New builds an empty Registry.
func New() *Registry {
	return &Registry{
		peers: make(map[string]*peer),
		rooms: make(map[roomKey]*roomEntry),
	}
}

// Register creates an unadmitted peer record for connID. Calling it
// twice for the same connection is a programming error.
func (r *Registry) Register(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.peers[connID]; exists {
		return ErrInternal
	}
	r.peers[connID] = &peer{connID: connID}
	return nil
}

// AdmitResult is returned by Admit on success.
type AdmitResult struct {
	ExistingMembers []string // connection-ids present before this admission
}

// Admit transitions the peer identified by connID to admitted in
// roomID, per spec §4.C. Tenant-mismatch takes precedence over
// room-full when both apply, since it indicates a credential problem
// rather than a capacity problem.
func (r *Registry) Admit(connID, roomID, userID, tenantID string) (AdmitResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.peers[connID]
	if !ok {
		return AdmitResult{}, ErrInternal
	}
	if p.roomID != "" {
		return AdmitResult{}, ErrAlreadyAdmitted
	}

	key := roomKey{tenantID: tenantID, roomID: roomID}
	entry, exists := r.rooms[key]
	if exists && entry.tenantID != tenantID {
		// Unreachable in practice since the key is namespaced by
		// tenantID already, but kept as an explicit invariant check
		// in case the key scheme ever changes.
		return AdmitResult{}, ErrTenantMismatch
	}
	if !exists {
		entry = &roomEntry{
			tenantID:        tenantID,
			maxParticipants: domain.DefaultMaxParticipants,
			members:         make(map[string]struct{}),
		}
		r.rooms[key] = entry
	}

	if len(entry.members) >= entry.maxParticipants {
		return AdmitResult{}, ErrRoomFull
	}

	existing := make([]string, 0, len(entry.members))
	for id := range entry.members {
		existing = append(existing, id)
	}

	entry.members[connID] = struct{}{}
	p.roomID = roomID
	p.userID = userID
	p.tenantID = tenantID

	return AdmitResult{ExistingMembers: existing}, nil
}

// SetRoomCapacity sets the capacity of a room. If no entry exists
// under that key yet, it creates an empty one carrying the cap, so the
// first Admit sees it instead of the default; if an entry exists, its
// cap is overwritten, whatever its current members. A non-positive cap
// means the default. Exposed for the REST layer, which knows a room's
// configured maxParticipants before any peer ever joins it.
func (r *Registry) SetRoomCapacity(roomID, tenantID string, maxParticipants int) {
	if maxParticipants <= 0 {
		maxParticipants = domain.DefaultMaxParticipants
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := roomKey{tenantID: tenantID, roomID: roomID}
	entry, exists := r.rooms[key]
	if !exists {
		r.rooms[key] = &roomEntry{
			tenantID:        tenantID,
			maxParticipants: maxParticipants,
			members:         make(map[string]struct{}),
		}
		return
	}
	entry.maxParticipants = maxParticipants
}

// LeaveResult is returned by Leave and DropConnection on success.
type LeaveResult struct {
	RoomID            string
	RemainingMembers  []string
}

// Leave removes connID from its room if admitted, resets its
// admission state, and deletes the room entry once it is empty. It
// returns (LeaveResult{}, false) if the peer was not admitted, or if
// the room entry was externally removed between registration and
// this call — both are defined as "none" in spec §4.C, not an error.
func (r *Registry) Leave(connID string) (LeaveResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.leaveLocked(connID)
}

func (r *Registry) leaveLocked(connID string) (LeaveResult, bool) {
	p, ok := r.peers[connID]
	if !ok || p.roomID == "" {
		return LeaveResult{}, false
	}

	key := roomKey{tenantID: p.tenantID, roomID: p.roomID}
	entry, exists := r.rooms[key]
	roomID := p.roomID
	p.roomID = ""
	p.tenantID = ""
	p.userID = ""

	if !exists {
		return LeaveResult{}, false
	}

	delete(entry.members, connID)
	remaining := make([]string, 0, len(entry.members))
	for id := range entry.members {
		remaining = append(remaining, id)
	}
	if len(entry.members) == 0 {
		delete(r.rooms, key)
	}

	return LeaveResult{RoomID: roomID, RemainingMembers: remaining}, true
}

// DropResult is returned by DropConnection on success.
type DropResult struct {
	RoomID           string
	RemainingMembers []string
	UserID           string
}

// DropConnection performs Leave and then removes the peer record
// entirely, per spec §4.C.
func (r *Registry) DropConnection(connID string) (DropResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.peers[connID]
	userID := ""
	if ok {
		userID = p.userID
	}

	lr, left := r.leaveLocked(connID)
	delete(r.peers, connID)

	if !left {
		return DropResult{}, false
	}
	return DropResult{RoomID: lr.RoomID, RemainingMembers: lr.RemainingMembers, UserID: userID}, true
}

// PeersOf returns all other members of the caller's room.
func (r *Registry) PeersOf(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.peers[connID]
	if !ok || p.roomID == "" {
		return nil
	}
	entry, exists := r.rooms[roomKey{tenantID: p.tenantID, roomID: p.roomID}]
	if !exists {
		return nil
	}
	out := make([]string, 0, len(entry.members))
	for id := range entry.members {
		if id != connID {
			out = append(out, id)
		}
	}
	return out
}

// UsersOf returns a snapshot of user-ids currently in roomID for
// tenantID.
func (r *Registry) UsersOf(tenantID, roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.rooms[roomKey{tenantID: tenantID, roomID: roomID}]
	if !exists {
		return nil
	}
	out := make([]string, 0, len(entry.members))
	for connID := range entry.members {
		if p, ok := r.peers[connID]; ok {
			out = append(out, p.userID)
		}
	}
	return out
}

// UserID returns the user-id bound to connID, if admitted.
func (r *Registry) UserID(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.peers[connID]
	if !ok || p.userID == "" {
		return "", false
	}
	return p.userID, true
}

// RoomMemberCount returns the live member count of a room, used by
// the REST surface's room listing (supplemented feature in
// SPEC_FULL.md).
func (r *Registry) RoomMemberCount(tenantID, roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, exists := r.rooms[roomKey{tenantID: tenantID, roomID: roomID}]
	if !exists {
		return 0
	}
	return len(entry.members)
}
