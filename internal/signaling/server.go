package signaling

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleUpgrade upgrades an incoming HTTP request to a WebSocket and
// spawns its endpoint actor. ctx is the server's lifetime context:
// cancelling it stops the endpoint's heartbeat, but not its read loop
// or write pump, which run until the transport closes; cancellation
// does not close the transport.
func (s *Server) HandleUpgrade(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.opts.Logger.Error().Err(err).Msg("ws upgrade failed")
		return
	}

	connID := uuid.NewString()
	ep := &endpoint{
		connID: connID,
		srv:    s,
		conn:   newWSConn(ws),
		log:    s.opts.Logger.With().Str("conn_id", connID).Logger(),
	}
	s.opts.Logger.Info().Str("conn_id", connID).Msg("new signaling connection")

	go ep.run(ctx)
}

// ServeHTTP lets Server itself act as an http.Handler bound to a
// background context, for callers that don't need request-scoped
// cancellation beyond the process lifetime context passed to NewServer's
// caller at startup.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.HandleUpgrade(context.Background(), w, r)
}
