package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bombparty/internal/game"

	"go.uber.org/zap"
)

type playerRequest struct {
	Player string `json:"player" binding:"required,name"`
}

type guessRequest struct {
	Player string `json:"player" binding:"required,name"`
	Guess  string `json:"guess" binding:"max=60"`
}

var playerMessages = bindMessages{
	"Player": {
		"required": "player is required",
		"name":     "player must be 1-20 letters, digits, spaces or - _ ' .",
	},
}

func (s *Server) handleCreateLobby(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if !bindJSON(w, r, &req, playerMessages, "invalid player") {
		return
	}
	leader, _ := validateName(req.Player)
	bombTimer, err := s.settings.BombTimer()
	if err != nil {
		s.logger.Warn("load settings failed", zap.Error(err))
	}
	lobbyID := newLobbyID()
	lobby, err := game.NewLobby(lobbyID, game.Participant(leader), s.bank, lobbySink{hub: s.ws, lobbyID: lobbyID}, s.engineConfig(bombTimer))
	if err != nil {
		s.logger.Error("create lobby failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create lobby")
		return
	}
	joinCode, err := s.store.AddLobby(lobby)
	if err != nil {
		s.logger.Error("register lobby failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create lobby")
		return
	}
	go s.watchLobby(lobby)
	s.logger.Info("lobby created",
		zap.String("lobby_id", lobbyID),
		zap.String("join_code", joinCode),
		zap.String("leader", leader),
		zap.Duration("bomb_timer", bombTimer),
	)
	writeJSON(w, http.StatusCreated, map[string]string{
		"lobby_id":  lobbyID,
		"join_code": joinCode,
		"leader":    leader,
	})
	s.broadcastHomeUpdate()
}

func (s *Server) handleListLobbies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"lobbies": s.homeSummaries(),
	})
}

func (s *Server) handleLobbySubroutes(w http.ResponseWriter, r *http.Request) {
	ref, action, ok := parseLobbyPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	lobby, joinCode, exists := s.store.GetLobby(ref)
	if !exists {
		writeError(w, http.StatusNotFound, "lobby not found")
		return
	}
	if r.Method == http.MethodGet {
		if action != "" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, lobbyPayload(lobby.Snapshot(), joinCode))
		return
	}
	switch action {
	case "join":
		s.handleJoin(w, r, lobby, joinCode)
	case "leave":
		s.handleLeave(w, r, lobby, joinCode)
	case "start":
		s.handleStart(w, r, lobby, joinCode)
	case "guesses":
		s.handleGuess(w, r, lobby)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, lobby *game.Lobby, joinCode string) {
	var req playerRequest
	if !bindJSON(w, r, &req, playerMessages, "invalid player") {
		return
	}
	player, _ := validateName(req.Player)
	if err := lobby.Join(r.Context(), game.Participant(player)); err != nil {
		writeGameError(w, err)
		return
	}
	s.logger.Info("player joined", zap.String("lobby_id", lobby.ID()), zap.String("player", player))
	writeJSON(w, http.StatusOK, lobbyPayload(lobby.Snapshot(), joinCode))
	s.broadcastHomeUpdate()
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request, lobby *game.Lobby, joinCode string) {
	var req playerRequest
	if !bindJSON(w, r, &req, playerMessages, "invalid player") {
		return
	}
	player, _ := validateName(req.Player)
	if err := lobby.Leave(r.Context(), game.Participant(player)); err != nil {
		writeGameError(w, err)
		return
	}
	s.logger.Info("player left", zap.String("lobby_id", lobby.ID()), zap.String("player", player))
	writeJSON(w, http.StatusOK, lobbyPayload(lobby.Snapshot(), joinCode))
	s.broadcastHomeUpdate()
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, lobby *game.Lobby, joinCode string) {
	var req playerRequest
	if !bindJSON(w, r, &req, playerMessages, "invalid player") {
		return
	}
	player, _ := validateName(req.Player)
	// The game outlives the request; it is bounded by the server instead.
	if err := lobby.Start(s.ctx, game.Participant(player)); err != nil {
		writeGameError(w, err)
		return
	}
	s.logger.Info("game started", zap.String("lobby_id", lobby.ID()), zap.String("leader", player))
	writeJSON(w, http.StatusOK, lobbyPayload(lobby.Snapshot(), joinCode))
	s.broadcastHomeUpdate()
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request, lobby *game.Lobby) {
	at := time.Now()
	var req guessRequest
	if !bindJSON(w, r, &req, bindMessages{
		"Player": playerMessages["Player"],
		"Guess":  {"max": "guess is too long"},
	}, "invalid guess") {
		return
	}
	player, _ := validateName(req.Player)
	ctx, cancel := context.WithTimeout(r.Context(), guessSubmitTimeout)
	defer cancel()
	accepted, err := lobby.SubmitGuess(ctx, game.Participant(player), req.Guess, at)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "guess not delivered")
			return
		}
		writeGameError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"accepted": accepted,
	})
}
