package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ashish23jun/One-Call/internal/config"
	"github.com/Ashish23jun/One-Call/internal/grantsvc"
	"github.com/Ashish23jun/One-Call/internal/presence"
	"github.com/Ashish23jun/One-Call/internal/roomstore"
	"github.com/Ashish23jun/One-Call/internal/tenantstore"
)

func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{Mode: "debug", DefaultGrantTTL: "1h"}
	tenants := tenantstore.NewMemoryStore()
	rooms := roomstore.NewMemoryStore()
	registry := presence.New()
	issuer := grantsvc.NewIssuer("test-secret", rooms, nil)

	engine := NewRouter(cfg, tenants, rooms, issuer, registry)
	ts := httptest.NewServer(engine)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, headers map[string]string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func createTestApp(t *testing.T, ts *httptest.Server) appResponse {
	t.Helper()
	resp := postJSON(t, ts, "/apps", nil, map[string]string{"name": "acme"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /apps status = %d", resp.StatusCode)
	}
	var app appResponse
	decodeJSON(t, resp, &app)
	return app
}

func TestCreateApp(t *testing.T) {
	ts := newTestAPI(t)
	app := createTestApp(t, ts)
	if app.ID == "" || app.Secret == "" || app.Name != "acme" {
		t.Fatalf("unexpected app response: %+v", app)
	}
}

func TestCreateApp_RejectsEmptyName(t *testing.T) {
	ts := newTestAPI(t)
	resp := postJSON(t, ts, "/apps", nil, map[string]string{"name": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateRoom_RequiresTenantAuth(t *testing.T) {
	ts := newTestAPI(t)
	resp := postJSON(t, ts, "/rooms", nil, map[string]any{"name": "standup"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestCreateRoom_RejectsWrongSecret(t *testing.T) {
	ts := newTestAPI(t)
	app := createTestApp(t, ts)

	resp := postJSON(t, ts, "/rooms", map[string]string{
		"x-app-id":     app.ID,
		"x-app-secret": "wrong-secret",
	}, map[string]any{"name": "standup"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestCreateRoomAndIssueToken_EndToEnd(t *testing.T) {
	ts := newTestAPI(t)
	app := createTestApp(t, ts)
	authHeaders := map[string]string{"x-app-id": app.ID, "x-app-secret": app.Secret}

	resp := postJSON(t, ts, "/rooms", authHeaders, map[string]any{"name": "standup", "maxParticipants": 2})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /rooms status = %d", resp.StatusCode)
	}
	var room roomResponse
	decodeJSON(t, resp, &room)
	if room.ID == "" || room.TenantID != app.ID || room.MaxParticipants != 2 || room.MemberCount != 0 {
		t.Fatalf("unexpected room response: %+v", room)
	}

	tokenResp := postJSON(t, ts, "/rooms/"+room.ID+"/token", authHeaders, map[string]any{
		"userId": "user-1",
		"role":   "host",
	})
	if tokenResp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /rooms/:id/token status = %d", tokenResp.StatusCode)
	}
	var issued issueTokenResponse
	decodeJSON(t, tokenResp, &issued)
	if issued.Token == "" || issued.ExpiresAt == "" {
		t.Fatalf("unexpected token response: %+v", issued)
	}
}

func TestGetRoom_NotFoundAcrossTenants(t *testing.T) {
	ts := newTestAPI(t)
	ownerApp := createTestApp(t, ts)
	ownerHeaders := map[string]string{"x-app-id": ownerApp.ID, "x-app-secret": ownerApp.Secret}

	resp := postJSON(t, ts, "/rooms", ownerHeaders, map[string]any{"name": "standup"})
	var room roomResponse
	decodeJSON(t, resp, &room)

	otherApp := createTestApp(t, ts)
	otherHeaders := map[string]string{"x-app-id": otherApp.ID, "x-app-secret": otherApp.Secret}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/rooms/"+room.ID, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range otherHeaders {
		req.Header.Set(k, v)
	}
	getResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", getResp.StatusCode)
	}
}
