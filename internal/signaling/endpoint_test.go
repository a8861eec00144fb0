package signaling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Ashish23jun/One-Call/internal/apperr"
	"github.com/Ashish23jun/One-Call/internal/domain"
	"github.com/Ashish23jun/One-Call/internal/grantsvc"
	"github.com/Ashish23jun/One-Call/internal/presence"
	"github.com/Ashish23jun/One-Call/internal/roomstore"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const testSecret = "integration-test-secret"

func startTestServer(t *testing.T, opts Options) (*httptest.Server, *presence.Registry, *grantsvc.Issuer, *roomstore.MemoryStore) {
	t.Helper()

	rooms := roomstore.NewMemoryStore()
	registry := presence.New()
	issuer := grantsvc.NewIssuer(testSecret, rooms, nil)
	opts.Logger = zerolog.Nop()
	srv := NewServer(registry, issuer, opts)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/signal", func(w http.ResponseWriter, r *http.Request) {
		srv.HandleUpgrade(context.Background(), w, r)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, registry, issuer, rooms
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/signal"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func readFrame(t *testing.T, c *websocket.Conn) map[string]any {
	t.Helper()
	_ = c.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := c.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal frame %q: %v", data, err)
	}
	return out
}

func mustIssueToken(t *testing.T, issuer *grantsvc.Issuer, tenantID, roomID, userID string, role domain.Role) string {
	t.Helper()
	token, _, err := issuer.IssueGrant(context.Background(), tenantID, roomID, userID, role, "1h")
	if err != nil {
		t.Fatalf("IssueGrant: %v", err)
	}
	return token
}

// TestHappyPath_TwoPeersJoinAndRelay covers scenario 1: both peers join
// the same room, the second join triggers peer-joined on the first,
// and offer and ice frames relay to the other side stamped with the
// sender's user-id.
func TestHappyPath_TwoPeersJoinAndRelay(t *testing.T) {
	ts, _, issuer, rooms := startTestServer(t, Options{})
	room, err := rooms.Create(context.Background(), "tenant-1", "standup", 2)
	if err != nil {
		t.Fatalf("rooms.Create: %v", err)
	}

	hostConn := dial(t, ts)
	hostToken := mustIssueToken(t, issuer, "tenant-1", room.ID, "host-user", domain.RoleHost)
	if err := hostConn.WriteJSON(map[string]any{"type": "join", "roomId": room.ID, "token": hostToken}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	joined := readFrame(t, hostConn)
	if joined["type"] != "joined" || joined["userId"] != "host-user" {
		t.Fatalf("unexpected joined frame: %#v", joined)
	}

	guestConn := dial(t, ts)
	guestToken := mustIssueToken(t, issuer, "tenant-1", room.ID, "guest-user", domain.RoleParticipant)
	if err := guestConn.WriteJSON(map[string]any{"type": "join", "roomId": room.ID, "token": guestToken}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	guestJoined := readFrame(t, guestConn)
	if guestJoined["type"] != "joined" {
		t.Fatalf("unexpected joined frame: %#v", guestJoined)
	}

	peerJoined := readFrame(t, hostConn)
	if peerJoined["type"] != "peer-joined" || peerJoined["userId"] != "guest-user" || peerJoined["isInitiator"] != true {
		t.Fatalf("unexpected peer-joined frame: %#v", peerJoined)
	}

	if err := hostConn.WriteJSON(map[string]any{"type": "offer", "sdp": map[string]any{"type": "offer", "sdp": "v=0..."}}); err != nil {
		t.Fatalf("write offer: %v", err)
	}
	offer := readFrame(t, guestConn)
	if offer["type"] != "offer" || offer["fromUserId"] != "host-user" {
		t.Fatalf("unexpected relayed offer: %#v", offer)
	}

	if err := guestConn.WriteJSON(map[string]any{"type": "ice", "candidate": map[string]any{"candidate": "candidate:1"}}); err != nil {
		t.Fatalf("write ice: %v", err)
	}
	ice := readFrame(t, hostConn)
	if ice["type"] != "ice" || ice["fromUserId"] != "guest-user" {
		t.Fatalf("unexpected relayed ice: %#v", ice)
	}

	if err := guestConn.WriteJSON(map[string]any{"type": "leave"}); err != nil {
		t.Fatalf("write leave: %v", err)
	}
	left := readFrame(t, hostConn)
	if left["type"] != "peer-left" || left["userId"] != "guest-user" {
		t.Fatalf("unexpected peer-left frame: %#v", left)
	}
}

// TestRoomFull covers scenario 2: a third join against a two-party
// room is rejected with ROOM_FULL and the connection is closed.
func TestRoomFull(t *testing.T) {
	ts, _, issuer, rooms := startTestServer(t, Options{})
	room, _ := rooms.Create(context.Background(), "tenant-1", "standup", 2)

	for _, user := range []string{"user-a", "user-b"} {
		c := dial(t, ts)
		token := mustIssueToken(t, issuer, "tenant-1", room.ID, user, domain.RoleParticipant)
		if err := c.WriteJSON(map[string]any{"type": "join", "roomId": room.ID, "token": token}); err != nil {
			t.Fatalf("write join: %v", err)
		}
		readFrame(t, c)
	}

	thirdConn := dial(t, ts)
	thirdToken := mustIssueToken(t, issuer, "tenant-1", room.ID, "user-c", domain.RoleParticipant)
	if err := thirdConn.WriteJSON(map[string]any{"type": "join", "roomId": room.ID, "token": thirdToken}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	errFrame := readFrame(t, thirdConn)
	if errFrame["type"] != "error" || errFrame["code"] != "ROOM_FULL" {
		t.Fatalf("unexpected frame: %#v", errFrame)
	}

	if _, _, err := thirdConn.ReadMessage(); err == nil {
		t.Fatal("expected connection to be closed after ROOM_FULL")
	}
}

// TestTenantMismatch covers the issuance side of scenario 3: a grant
// for a room owned by a different tenant than the one the issuer
// authenticated against is refused at issuance time, so a cross-tenant
// join can't even be constructed through the public issuer API.
func TestTenantMismatch(t *testing.T) {
	ts, _, issuer, rooms := startTestServer(t, Options{})
	room, _ := rooms.Create(context.Background(), "tenant-1", "standup", 2)

	_, _, err := issuer.IssueGrant(context.Background(), "tenant-2", room.ID, "intruder", domain.RoleParticipant, "1h")
	ae := apperr.As(err)
	if ae == nil || ae.Kind != apperr.Forbidden {
		t.Fatalf("IssueGrant across tenants: err = %v, want forbidden", err)
	}
	_ = ts
}

// TestExpiredGrantRejected covers scenario 4.
func TestExpiredGrantRejected(t *testing.T) {
	ts, _, issuer, rooms := startTestServer(t, Options{})
	room, _ := rooms.Create(context.Background(), "tenant-1", "standup", 2)

	token, _, err := issuer.IssueGrant(context.Background(), "tenant-1", room.ID, "user-a", domain.RoleParticipant, "1s")
	if err != nil {
		t.Fatalf("IssueGrant: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)

	c := dial(t, ts)
	if err := c.WriteJSON(map[string]any{"type": "join", "roomId": room.ID, "token": token}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	errFrame := readFrame(t, c)
	if errFrame["type"] != "error" || errFrame["code"] != "TOKEN_EXPIRED" {
		t.Fatalf("unexpected frame: %#v", errFrame)
	}
}

// TestRelayBeforeJoinRejected covers scenario 5: an offer sent on a
// connection that never joined is rejected NOT_IN_ROOM without closing
// the connection.
func TestRelayBeforeJoinRejected(t *testing.T) {
	ts, _, _, _ := startTestServer(t, Options{})
	c := dial(t, ts)

	if err := c.WriteJSON(map[string]any{"type": "offer", "sdp": map[string]any{"type": "offer"}}); err != nil {
		t.Fatalf("write offer: %v", err)
	}
	errFrame := readFrame(t, c)
	if errFrame["type"] != "error" || errFrame["code"] != "NOT_IN_ROOM" {
		t.Fatalf("unexpected frame: %#v", errFrame)
	}

	// The connection must still be usable: whoami should still answer.
	if err := c.WriteJSON(map[string]any{"type": "whoami"}); err != nil {
		t.Fatalf("write whoami: %v", err)
	}
	who := readFrame(t, c)
	if who["type"] != "whoami" {
		t.Fatalf("unexpected frame: %#v", who)
	}
}

// TestHeartbeatReapsDeadConnection covers scenario 6: a connection that
// never answers pong is reaped by the second heartbeat tick.
func TestHeartbeatReapsDeadConnection(t *testing.T) {
	ts, registry, issuer, rooms := startTestServer(t, Options{HeartbeatPeriod: 50 * time.Millisecond})
	room, _ := rooms.Create(context.Background(), "tenant-1", "standup", 2)

	c := dial(t, ts)
	// Override the default ping handler, which otherwise auto-replies
	// with a pong, so this connection behaves like a genuinely stalled
	// client for the reap check below.
	c.SetPingHandler(func(string) error { return nil })
	token := mustIssueToken(t, issuer, "tenant-1", room.ID, "user-a", domain.RoleParticipant)
	if err := c.WriteJSON(map[string]any{"type": "join", "roomId": room.ID, "token": token}); err != nil {
		t.Fatalf("write join: %v", err)
	}
	readFrame(t, c)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if registry.RoomMemberCount("tenant-1", room.ID) == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("expected connection to be reaped by heartbeat timeout")
}

