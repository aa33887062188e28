package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bombparty/internal/game"
	"bombparty/internal/web"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait        = 5 * time.Second
	guessSubmitTimeout = 10 * time.Second
)

var errHubClosed = errors.New("websocket hub closed")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*websocket.Conn]*wsClient
	closed bool
}

type homeHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]*wsClient
}

// wsClient serialises writes to one connection, so a stalled peer only
// delays its own messages.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

type wsInbound struct {
	Type   string `json:"type"`
	Player string `json:"player"`
	Guess  string `json:"guess"`
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[string]map[*websocket.Conn]*wsClient),
	}
}

func newHomeHub() *homeHub {
	return &homeHub{
		conns: make(map[*websocket.Conn]*wsClient),
	}
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsClient) Send(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = c.write(data)
}

// Add registers a connection with a lobby group. It returns nil once the hub
// is closed.
func (h *wsHub) Add(lobbyID string, conn *websocket.Conn) *wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	group := h.groups[lobbyID]
	if group == nil {
		group = make(map[*websocket.Conn]*wsClient)
		h.groups[lobbyID] = group
	}
	client := &wsClient{conn: conn}
	group[conn] = client
	return client
}

func (h *wsHub) Remove(lobbyID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[lobbyID]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.groups, lobbyID)
	}
}

// RemoveGroup disconnects every spectator of a lobby.
func (h *wsHub) RemoveGroup(lobbyID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.groups[lobbyID] {
		_ = conn.Close()
	}
	delete(h.groups, lobbyID)
}

// Broadcast fans a payload out to a lobby's connections. Connections that
// fail to write are dropped; only a closed hub is reported as an error.
func (h *wsHub) Broadcast(lobbyID string, payload any) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return errHubClosed
	}
	group := h.groups[lobbyID]
	clients := make([]*wsClient, 0, len(group))
	for _, client := range group {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	for _, client := range clients {
		if err := client.write(data); err != nil {
			h.Remove(lobbyID, client.conn)
		}
	}
	return nil
}

func (h *wsHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for lobbyID, group := range h.groups {
		for conn := range group {
			_ = conn.Close()
		}
		delete(h.groups, lobbyID)
	}
}

func (h *homeHub) Add(conn *websocket.Conn) *wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	client := &wsClient{conn: conn}
	h.conns[conn] = client
	return client
}

func (h *homeHub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	_ = conn.Close()
}

func (h *homeHub) Broadcast(payload any) {
	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.conns))
	for _, client := range h.conns {
		clients = append(clients, client)
	}
	h.mu.Unlock()
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, client := range clients {
		if err := client.write(data); err != nil {
			h.Remove(client.conn)
		}
	}
}

func (h *homeHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}

// lobbySink delivers one lobby's events to its websocket group.
type lobbySink struct {
	hub     *wsHub
	lobbyID string
}

func (s lobbySink) Publish(ctx context.Context, event game.Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", game.ErrTransport, err)
	}
	if err := s.hub.Broadcast(s.lobbyID, eventPayload(s.lobbyID, event)); err != nil {
		return fmt.Errorf("%w: %v", game.ErrTransport, err)
	}
	return nil
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ref, ok := parseWebsocketPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	lobby, joinCode, exists := s.store.GetLobby(ref)
	if !exists {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := s.ws.Add(lobby.ID(), conn)
	if client == nil {
		_ = conn.Close()
		return
	}
	s.logger.Debug("ws connected", zap.String("lobby_id", lobby.ID()), zap.String("remote", r.RemoteAddr))
	client.Send(map[string]any{
		"type":  "snapshot",
		"lobby": lobbyPayload(lobby.Snapshot(), joinCode),
	})
	go s.readWS(lobby.ID(), conn)
}

func (s *Server) handleHomeWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.logger.Debug("ws connected home", zap.String("remote", r.RemoteAddr))
	client := s.homeWS.Add(conn)
	client.Send(map[string]any{
		"lobbies": s.homeSummaries(),
	})
	go s.readHomeWS(conn)
}

// readWS drains a lobby connection. Guess frames are forwarded to the
// running game; anything else is ignored.
func (s *Server) readWS(lobbyID string, conn *websocket.Conn) {
	defer s.ws.Remove(lobbyID, conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Debug("ws disconnected", zap.String("lobby_id", lobbyID), zap.Error(err))
			return
		}
		at := time.Now()
		var msg wsInbound
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "guess" {
			continue
		}
		s.submitSocketGuess(lobbyID, msg, at)
	}
}

func (s *Server) submitSocketGuess(lobbyID string, msg wsInbound, at time.Time) {
	lobby, _, ok := s.store.GetLobby(lobbyID)
	if !ok {
		return
	}
	player, err := validateName(msg.Player)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, guessSubmitTimeout)
	defer cancel()
	accepted, err := lobby.SubmitGuess(ctx, game.Participant(player), msg.Guess, at)
	if err != nil {
		s.logger.Debug("ws guess dropped", zap.String("lobby_id", lobbyID), zap.Error(err))
		return
	}
	s.logger.Debug("ws guess", zap.String("lobby_id", lobbyID), zap.String("player", player), zap.Bool("accepted", accepted))
}

func (s *Server) readHomeWS(conn *websocket.Conn) {
	defer s.homeWS.Remove(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) broadcastHomeUpdate() {
	if s.homeWS == nil {
		return
	}
	s.homeWS.Broadcast(map[string]any{
		"lobbies": s.homeSummaries(),
	})
}

func (s *Server) homeSummaries() []web.LobbySummary {
	summaries := make([]web.LobbySummary, 0)
	for _, lobby := range s.store.ListLobbySummaries() {
		summaries = append(summaries, web.LobbySummary{
			ID:       lobby.ID,
			JoinCode: lobby.JoinCode,
			Phase:    lobby.Phase,
			Leader:   lobby.Leader,
			Players:  lobby.Players,
		})
	}
	return summaries
}
