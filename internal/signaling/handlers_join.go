package signaling

import (
	"context"
	"encoding/json"

	"github.com/Ashish23jun/One-Call/internal/apperr"
	"github.com/Ashish23jun/One-Call/internal/presence"
	"github.com/Ashish23jun/One-Call/internal/protocol"
)

// handleJoin implements spec §4.D's join transition: Opened -> Admitted
// on a grant whose claims verify and whose roomId matches the
// message's roomId, followed by a successful admission.
func (e *endpoint) handleJoin(raw []byte) {
	if e.getState() != stateOpened {
		e.sendError(apperr.Conflict, apperr.CodeAlreadyInRoom, "already admitted")
		return
	}

	var frame protocol.JoinFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		e.failMalformed()
		return
	}

	claims, err := e.srv.issuer.VerifyGrant(context.Background(), frame.Token)
	if err != nil {
		ae := apperr.As(err)
		e.sendError(ae.Kind, ae.Code, ae.Message)
		return
	}

	if claims.RoomID != frame.RoomID {
		e.sendError(apperr.Unauthorized, apperr.CodeInvalidToken, "grant roomId does not match requested roomId")
		return
	}

	existingUsers := e.srv.registry.UsersOf(claims.TenantID, frame.RoomID)

	res, err := e.srv.registry.Admit(e.connID, frame.RoomID, claims.UserID, claims.TenantID)
	if err != nil {
		e.handleAdmitError(err)
		return
	}

	e.roomID = frame.RoomID
	e.userID = claims.UserID
	e.tenantID = claims.TenantID
	e.setState(stateAdmitted)

	e.sendFrame(protocol.JoinedFrame{
		Type:   protocol.TypeJoined,
		RoomID: frame.RoomID,
		UserID: claims.UserID,
		Peers:  existingUsers,
	})

	e.notifyPeerJoined(res.ExistingMembers, claims.UserID)
}

func (e *endpoint) handleAdmitError(err error) {
	switch err {
	case presence.ErrAlreadyAdmitted:
		e.sendError(apperr.Conflict, apperr.CodeAlreadyInRoom, "already in a room")
	case presence.ErrTenantMismatch:
		e.sendError(apperr.Forbidden, apperr.CodeTenantMismatch, "room belongs to another tenant")
	case presence.ErrRoomFull:
		e.sendError(apperr.RoomFull, apperr.CodeRoomFull, "room is full")
	default:
		e.sendError(apperr.Internal, apperr.CodeInternal, "admission failed")
	}
}

// notifyPeerJoined tells each pre-existing member about the newly
// admitted peer with isInitiator set, designating the pre-existing
// member as initiator, per spec §4.D's rationale: exactly one side
// generates the first SDP offer.
func (e *endpoint) notifyPeerJoined(existingMembers []string, newUserID string) {
	frame, err := json.Marshal(protocol.PeerJoinedFrame{
		Type:        protocol.TypePeerJoined,
		UserID:      newUserID,
		IsInitiator: true,
	})
	if err != nil {
		return
	}
	for _, connID := range existingMembers {
		_ = e.srv.hub.sendTo(connID, frame)
	}
}
