package signaling

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrBackpressure is returned by wsConn.TrySend when the outbound
// buffer is saturated; the caller is expected to treat the connection
// as stalled and terminate it, per spec §5.
var ErrBackpressure = errors.New("signaling: backpressure")

// sendBufferSize bounds the outbound channel; beyond this, TrySend
// fails rather than blocking the caller, matching the teacher's
// adapter buffer size.
const sendBufferSize = 32

const writeDeadline = 5 * time.Second

// wsConn wraps a single WebSocket connection. Every outgoing frame is
// serialized through one writer goroutine draining send, so concurrent
// callers never race on the underlying socket.
type wsConn struct {
	ws   *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool

	// writeMu serializes actual socket writes between the write pump
	// (data frames) and the heartbeat loop (control-frame pings) —
	// gorilla/websocket forbids concurrent writers on one connection.
	writeMu sync.Mutex
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{ws: ws, send: make(chan []byte, sendBufferSize)}
}

// TrySend enqueues a frame for the write pump. It never blocks: a full
// buffer reports ErrBackpressure immediately.
func (c *wsConn) TrySend(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("signaling: connection closed")
	}
	select {
	case c.send <- frame:
		return nil
	default:
		return ErrBackpressure
	}
}

// Close idempotently stops the write pump and closes the transport.
func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	c.mu.Unlock()
	_ = c.ws.Close()
}

// readMessage blocks for the next text frame from the client.
func (c *wsConn) readMessage() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	return data, err
}

func (c *wsConn) writePump() {
	for frame := range c.send {
		c.writeMu.Lock()
		err := c.writeLocked(websocket.TextMessage, frame)
		c.writeMu.Unlock()
		if err != nil {
			c.Close()
			return
		}
	}
}

func (c *wsConn) writeLocked(messageType int, data []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	return c.ws.WriteMessage(messageType, data)
}

// onPong registers the handler invoked when a pong control frame
// arrives. Must be called before the read loop starts, since gorilla
// only invokes pong handlers from within ReadMessage.
func (c *wsConn) onPong(fn func()) {
	c.ws.SetPongHandler(func(string) error {
		fn()
		return nil
	})
}

// ping sends a WebSocket control-frame ping, serialized against the
// write pump's data frames.
func (c *wsConn) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline))
}
