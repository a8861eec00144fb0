package signaling

import (
	"context"
	"time"
)

// defaultHeartbeatPeriod matches spec §4.D's 30s tick.
const defaultHeartbeatPeriod = 30 * time.Second

// heartbeatLoop pings at the WebSocket control-frame level, distinct
// from the application-level {"type":"ping"} frame in
// protocol.PingFrame (SPEC_FULL.md supplemented feature 2): a stalled
// JSON handler on either side cannot mask a dead transport, since the
// control frame is answered by the library before any application
// code runs.
//
// It implements spec §4.D's liveness check: every tick,
// clear the liveness flag and ping; if the flag is still clear at the
// *next* tick (i.e. no pong arrived within one full period), the
// connection is reaped. This bounds detection to two periods, matching
// spec §8's "reaped by the (2*interval)th tick".
func (e *endpoint) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(e.srv.opts.HeartbeatPeriod)
	defer ticker.Stop()

	e.conn.onPong(func() { e.alive.Store(true) })

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if e.getState() == stateClosing {
				return
			}
			if !e.alive.Swap(false) {
				e.log.Warn().Str("conn_id", e.connID).Msg("heartbeat timeout, reaping connection")
				e.closeWith()
				return
			}
			if err := e.conn.ping(); err != nil {
				e.closeWith()
				return
			}
		}
	}
}
