package server

import (
	"net/http"

	"bombparty/internal/web"

	"github.com/a-h/templ"
	"go.uber.org/zap"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	templ.Handler(web.Home(s.homeSummaries())).ServeHTTP(w, r)
}

func (s *Server) handleLobbyView(w http.ResponseWriter, r *http.Request) {
	ref, ok := parseLobbyViewPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	lobby, joinCode, exists := s.store.GetLobby(ref)
	if !exists {
		s.logger.Debug("lobby view missing", zap.String("lobby", ref))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	templ.Handler(web.LobbyView(lobby.ID(), joinCode)).ServeHTTP(w, r)
}
