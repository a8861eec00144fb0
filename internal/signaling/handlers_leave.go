package signaling

import "github.com/Ashish23jun/One-Call/internal/protocol"

// handleLeave implements spec §4.D: if Admitted, leave the room and
// notify remaining members, then close; in Opened, noop then close.
func (e *endpoint) handleLeave() {
	if e.getState() == stateAdmitted {
		lr, ok := e.srv.registry.Leave(e.connID)
		if ok {
			e.broadcastPeerLeft(lr.RoomID, e.userID, lr.RemainingMembers)
		}
		e.roomID = ""
	}
	e.closeWith()
}

func (e *endpoint) handlePing() {
	e.sendFrame(protocol.PongFrame{Type: protocol.TypePong})
}

func (e *endpoint) handleWhoAmI() {
	e.sendFrame(protocol.WhoAmIResponse{
		Type:   "whoami",
		UserID: e.userID,
		RoomID: e.roomID,
	})
}
