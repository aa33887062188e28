package server

import (
	"time"

	"bombparty/internal/game"

	"go.uber.org/zap"
)

// watchLobby waits for a lobby to finish or be abandoned and then schedules
// its removal after the retention window.
func (s *Server) watchLobby(lobby *game.Lobby) {
	select {
	case <-lobby.Done():
	case <-s.ctx.Done():
		return
	}
	snapshot := lobby.Snapshot()
	fields := []zap.Field{zap.String("lobby_id", snapshot.ID), zap.String("phase", string(snapshot.Phase))}
	if snapshot.Game != nil && snapshot.Game.Winner != "" {
		fields = append(fields, zap.String("winner", string(snapshot.Game.Winner)))
	}
	s.logger.Info("lobby closed", fields...)
	s.broadcastHomeUpdate()
	s.scheduleLobbyExpiry(snapshot.ID)
}

func (s *Server) scheduleLobbyExpiry(lobbyID string) {
	retention := s.cfg.LobbyRetention()
	if retention <= 0 {
		s.removeLobby(lobbyID)
		return
	}
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if s.stopped {
		return
	}
	if existing, ok := s.timers[lobbyID]; ok {
		existing.Stop()
	}
	s.timers[lobbyID] = time.AfterFunc(retention, func() {
		s.removeLobby(lobbyID)
	})
}

func (s *Server) cancelLobbyExpiry(lobbyID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[lobbyID]; ok {
		timer.Stop()
		delete(s.timers, lobbyID)
	}
}

func (s *Server) stopTimers() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	s.stopped = true
	for lobbyID, timer := range s.timers {
		timer.Stop()
		delete(s.timers, lobbyID)
	}
}

func (s *Server) removeLobby(lobbyID string) {
	s.cancelLobbyExpiry(lobbyID)
	if !s.store.RemoveLobby(lobbyID) {
		return
	}
	s.ws.RemoveGroup(lobbyID)
	s.logger.Debug("lobby removed", zap.String("lobby_id", lobbyID))
	s.broadcastHomeUpdate()
}
