// Package signaling implements spec §4.D: the per-connection protocol
// state machine that admits a connection, validates a grant, drives
// presence transitions, relays negotiation messages, runs the
// liveness heartbeat, and cleans up on exit.
package signaling

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/Ashish23jun/One-Call/internal/apperr"
	"github.com/Ashish23jun/One-Call/internal/grantsvc"
	"github.com/Ashish23jun/One-Call/internal/presence"
	"github.com/Ashish23jun/One-Call/internal/protocol"
	"github.com/rs/zerolog"
)

// state is the endpoint's position in spec §4.D's state machine.
type state int32

const (
	stateOpened state = iota
	stateAdmitted
	stateClosing
)

// Server holds the collaborators every endpoint needs: the Presence
// Registry (component C), the Grant Issuer/verifier (component B),
// and the hub used to address relayed frames at other connections.
// Constructed once at process startup and passed to every endpoint,
// per SPEC_FULL.md's "scoped registry" design note.
type Server struct {
	registry *presence.Registry
	issuer   *grantsvc.Issuer
	hub      *hub
	opts     Options
}

// Options configures heartbeat timing and logging.
type Options struct {
	HeartbeatPeriod   time.Duration
	Logger            zerolog.Logger
}

// NewServer builds a Server bound to the given Presence Registry and
// Grant Issuer.
func NewServer(registry *presence.Registry, issuer *grantsvc.Issuer, opts Options) *Server {
	if opts.HeartbeatPeriod <= 0 {
		opts.HeartbeatPeriod = defaultHeartbeatPeriod
	}
	return &Server{registry: registry, issuer: issuer, hub: newHub(), opts: opts}
}

// endpoint is one connection's state machine instance.
type endpoint struct {
	connID   string
	srv      *Server
	conn     *wsConn
	state    atomic.Int32
	log      zerolog.Logger

	// set once Admitted; read only from this endpoint's own goroutines.
	roomID   string
	userID   string
	tenantID string

	alive atomic.Bool // cleared each heartbeat tick, set on pong
}

func (e *endpoint) getState() state   { return state(e.state.Load()) }
func (e *endpoint) setState(s state)  { e.state.Store(int32(s)) }

// run drives one connection end to end: spawn the write pump, the
// heartbeat ticker, and the read loop (which blocks until the
// transport closes or a fatal error occurs), then cleans up.
func (e *endpoint) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := e.srv.registry.Register(e.connID); err != nil {
		e.log.Error().Err(err).Msg("register failed")
		e.conn.Close()
		return
	}
	e.srv.hub.add(e.connID, e.conn)
	e.alive.Store(true)

	go e.conn.writePump()
	go e.heartbeatLoop(ctx)

	e.readLoop(ctx)

	e.cleanup()
}

func (e *endpoint) readLoop(ctx context.Context) {
	for {
		raw, err := e.conn.readMessage()
		if err != nil {
			e.log.Info().Err(err).Str("conn_id", e.connID).Msg("read loop ended")
			return
		}
		if e.getState() == stateClosing {
			return
		}
		e.handleFrame(raw)
		if e.getState() == stateClosing {
			return
		}
	}
}

func (e *endpoint) handleFrame(raw []byte) {
	typ, err := protocol.PeekType(raw)
	if err != nil {
		e.failMalformed()
		return
	}

	switch typ {
	case protocol.TypeJoin:
		e.handleJoin(raw)
	case protocol.TypeOffer:
		e.handleOffer(raw)
	case protocol.TypeAnswer:
		e.handleAnswer(raw)
	case protocol.TypeIce:
		e.handleIce(raw)
	case protocol.TypeLeave:
		e.handleLeave()
	case protocol.TypePing:
		e.handlePing()
	case protocol.TypeWhoAmI:
		e.handleWhoAmI()
	default:
		e.sendError(apperr.Validation, apperr.CodeInvalidMessage, "unknown frame type: "+typ)
	}
}

// failMalformed handles a frame the JSON decoder could not even peek a
// type from. Per spec §4.D's state machine and the resolution recorded
// in apperr.Kind.Fatal's doc comment: in Opened there is no admitted
// session to fall back to, so the connection closes; once Admitted a
// malformed frame is reported but the connection stays open.
func (e *endpoint) failMalformed() {
	e.sendError(apperr.Validation, apperr.CodeInvalidMessage, "malformed frame")
	if e.getState() == stateOpened {
		e.closeWith()
	}
}

func (e *endpoint) sendError(kind apperr.Kind, code, message string) {
	e.sendFrame(protocol.NewErrorFrame(code, message))
	if kind.Fatal() {
		e.closeWith()
	}
}

func (e *endpoint) sendFrame(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		e.log.Error().Err(err).Msg("marshal outgoing frame")
		return
	}
	if err := e.conn.TrySend(b); err == ErrBackpressure {
		e.log.Warn().Str("conn_id", e.connID).Msg("backpressure, terminating connection")
		e.closeWith()
	}
}

// closeWith transitions to Closing and closes the transport. The read
// loop observes stateClosing on its next iteration and exits.
func (e *endpoint) closeWith() {
	e.setState(stateClosing)
	e.conn.Close()
}

func (e *endpoint) cleanup() {
	e.setState(stateClosing)
	e.srv.hub.remove(e.connID)

	dr, ok := e.srv.registry.DropConnection(e.connID)
	e.conn.Close()
	if !ok {
		return
	}
	e.broadcastPeerLeft(dr.RoomID, dr.UserID, dr.RemainingMembers)
}

func (e *endpoint) broadcastPeerLeft(roomID, userID string, remaining []string) {
	if userID == "" {
		return
	}
	frame, err := json.Marshal(protocol.PeerLeftFrame{Type: protocol.TypePeerLeft, UserID: userID})
	if err != nil {
		return
	}
	for _, connID := range remaining {
		_ = e.srv.hub.sendTo(connID, frame)
	}
}
