// Package protocol defines the signaling wire protocol of spec §6: one
// JSON object per WebSocket message, forming closed client->server and
// server->client sums. The parser produces a tagged variant and the
// state machine in internal/signaling matches on it, rejecting unknown
// tags at the boundary.
//
// The SDP and ICE-candidate payload shapes reuse
// github.com/pion/webrtc/v4's wire types instead of hand-rolled
// structs, since those types already marshal to exactly the shape
// spec §6 specifies (SPEC_FULL.md §4.D).
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/pion/webrtc/v4"
)

// Incoming frame type tags (client -> server).
const (
	TypeJoin   = "join"
	TypeOffer  = "offer"
	TypeAnswer = "answer"
	TypeIce    = "ice"
	TypeLeave  = "leave"
	TypePing   = "ping"
	TypeWhoAmI = "whoami"
)

// Outgoing frame type tags (server -> client).
const (
	TypeJoined     = "joined"
	TypePeerJoined = "peer-joined"
	TypePeerLeft   = "peer-left"
	TypeError      = "error"
	TypePong       = "pong"
)

// envelope is decoded first to dispatch on Type before the full frame
// is parsed into its concrete shape.
type envelope struct {
	Type string `json:"type"`
}

// PeekType extracts the "type" tag from a raw frame without
// committing to its full shape.
func PeekType(raw []byte) (string, error) {
	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return "", fmt.Errorf("malformed frame: %w", err)
	}
	if e.Type == "" {
		return "", fmt.Errorf("malformed frame: missing type")
	}
	return e.Type, nil
}

// JoinFrame is the client's join request.
type JoinFrame struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Token  string `json:"token"`
}

// OfferFrame and AnswerFrame carry an opaque SDP blob the core never
// inspects.
type OfferFrame struct {
	Type string                     `json:"type"`
	SDP  webrtc.SessionDescription `json:"sdp"`
}

type AnswerFrame struct {
	Type string                     `json:"type"`
	SDP  webrtc.SessionDescription `json:"sdp"`
}

// IceFrame carries an opaque ICE candidate the core never inspects.
type IceFrame struct {
	Type      string                    `json:"type"`
	Candidate webrtc.ICECandidateInit `json:"candidate"`
}

// LeaveFrame requests a graceful departure from the current room.
type LeaveFrame struct {
	Type string `json:"type"`
}

// PingFrame is an application-level liveness probe, independent of the
// server-driven heartbeat (SPEC_FULL.md supplemented feature 2).
type PingFrame struct {
	Type string `json:"type"`
}

// WhoAmIFrame asks the server to echo the caller's identity
// (SPEC_FULL.md supplemented feature 1).
type WhoAmIFrame struct {
	Type string `json:"type"`
}

// JoinedFrame is sent to the newly admitted peer.
type JoinedFrame struct {
	Type   string   `json:"type"`
	RoomID string   `json:"roomId"`
	UserID string   `json:"userId"`
	Peers  []string `json:"peers"`
}

// PeerJoinedFrame is sent to each pre-existing member when a new peer
// joins their room.
type PeerJoinedFrame struct {
	Type        string `json:"type"`
	UserID      string `json:"userId"`
	IsInitiator bool   `json:"isInitiator"`
}

// PeerLeftFrame is sent to the remaining members when a peer leaves or
// disconnects.
type PeerLeftFrame struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// RelayOfferFrame and RelayAnswerFrame are the server->client shapes
// for relayed offer/answer frames, stamped with the sender's user-id.
type RelayOfferFrame struct {
	Type       string                     `json:"type"`
	SDP        webrtc.SessionDescription `json:"sdp"`
	FromUserID string                     `json:"fromUserId"`
}

type RelayAnswerFrame struct {
	Type       string                     `json:"type"`
	SDP        webrtc.SessionDescription `json:"sdp"`
	FromUserID string                     `json:"fromUserId"`
}

// RelayIceFrame is the server->client shape for a relayed ICE
// candidate, stamped with the sender's user-id.
type RelayIceFrame struct {
	Type       string                    `json:"type"`
	Candidate  webrtc.ICECandidateInit `json:"candidate"`
	FromUserID string                    `json:"fromUserId"`
}

// ErrorFrame carries a stable code (spec §7) and a human message.
type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PongFrame answers a client PingFrame.
type PongFrame struct {
	Type string `json:"type"`
}

// WhoAmIResponse answers a client WhoAmIFrame.
type WhoAmIResponse struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
	RoomID string `json:"roomId,omitempty"`
}

func NewErrorFrame(code, message string) ErrorFrame {
	return ErrorFrame{Type: TypeError, Code: code, Message: message}
}
