package signaling

import (
	"encoding/json"

	"github.com/Ashish23jun/One-Call/internal/apperr"
	"github.com/Ashish23jun/One-Call/internal/protocol"
)

// handleOffer, handleAnswer, and handleIce implement spec §4.D's
// relay contract: forbidden in Opened; in Admitted, relayed verbatim
// to every other member of the room, stamped with the sender's
// user-id. The core never inspects the SDP or candidate payload. If
// no other member exists, the frame is silently dropped.
func (e *endpoint) handleOffer(raw []byte) {
	if !e.requireAdmitted() {
		return
	}
	var frame protocol.OfferFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		e.failMalformed()
		return
	}
	e.relay(protocol.RelayOfferFrame{
		Type:       protocol.TypeOffer,
		SDP:        frame.SDP,
		FromUserID: e.userID,
	})
}

func (e *endpoint) handleAnswer(raw []byte) {
	if !e.requireAdmitted() {
		return
	}
	var frame protocol.AnswerFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		e.failMalformed()
		return
	}
	e.relay(protocol.RelayAnswerFrame{
		Type:       protocol.TypeAnswer,
		SDP:        frame.SDP,
		FromUserID: e.userID,
	})
}

func (e *endpoint) handleIce(raw []byte) {
	if !e.requireAdmitted() {
		return
	}
	var frame protocol.IceFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		e.failMalformed()
		return
	}
	e.relay(protocol.RelayIceFrame{
		Type:       protocol.TypeIce,
		Candidate:  frame.Candidate,
		FromUserID: e.userID,
	})
}

// requireAdmitted reports whether the endpoint is in Admitted state,
// sending NOT_IN_ROOM otherwise. NOT_IN_ROOM is non-fatal: the
// connection stays open so the client can still join.
func (e *endpoint) requireAdmitted() bool {
	if e.getState() == stateAdmitted {
		return true
	}
	e.sendFrame(protocol.NewErrorFrame(apperr.CodeNotInRoom, "not in a room"))
	return false
}

func (e *endpoint) relay(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	for _, connID := range e.srv.registry.PeersOf(e.connID) {
		_ = e.srv.hub.sendTo(connID, b)
	}
}
