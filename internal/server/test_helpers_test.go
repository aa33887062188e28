package server

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bombparty/internal/config"
	"bombparty/internal/game"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var testWords = []string{
	"apple", "banana", "cherry", "grape", "lemon", "mango",
	"melon", "orange", "peach", "pear", "plum", "berry",
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.BombTimerSeconds = 2
	cfg.CountdownSeconds = 0
	cfg.StartDelaySeconds = 0
	return cfg
}

func testBank(t *testing.T) *game.WordBank {
	t.Helper()
	bank, err := game.NewWordBank(testWords)
	if err != nil {
		t.Fatalf("word bank: %v", err)
	}
	return bank
}

func newBombServer(t *testing.T, cfg config.Config) (*Server, *httptest.Server) {
	t.Helper()
	srv := New(nil, cfg, testBank(t), zap.NewNop())
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(srv.Close)
	return srv, ts
}

func doJSON(t *testing.T, method, url string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	payload := map[string]any{}
	_ = json.NewDecoder(res.Body).Decode(&payload)
	return res.StatusCode, payload
}

func postJSON(t *testing.T, url string, body any) (int, map[string]any) {
	t.Helper()
	return doJSON(t, http.MethodPost, url, body)
}

func createLobby(t *testing.T, ts *httptest.Server, leader string) (string, string) {
	t.Helper()
	status, payload := postJSON(t, ts.URL+"/api/lobbies", map[string]string{"player": leader})
	if status != http.StatusCreated {
		t.Fatalf("create lobby: status %d payload %v", status, payload)
	}
	lobbyID, _ := payload["lobby_id"].(string)
	joinCode, _ := payload["join_code"].(string)
	if lobbyID == "" || joinCode == "" {
		t.Fatalf("create lobby: unexpected payload %v", payload)
	}
	return lobbyID, joinCode
}

func lobbyAction(t *testing.T, ts *httptest.Server, lobbyID, action, player string) (int, map[string]any) {
	t.Helper()
	return postJSON(t, ts.URL+"/api/lobbies/"+lobbyID+"/"+action, map[string]string{"player": player})
}

func dialLobby(t *testing.T, ts *httptest.Server, lobbyID string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/lobbies/" + lobbyID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Skipf("skipping test; websocket dial unavailable: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil returns the first frame of the given type, skipping others.
func readUntil(t *testing.T, conn *websocket.Conn, messageType string, timeout time.Duration) map[string]any {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		_ = conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", messageType, err)
		}
		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode websocket message: %v", err)
		}
		if msg["type"] == messageType {
			return msg
		}
	}
}

func wordFor(t *testing.T, prompt string) string {
	t.Helper()
	for _, word := range testWords {
		if strings.Contains(word, prompt) {
			return word
		}
	}
	t.Fatalf("no test word contains %q", prompt)
	return ""
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}
