package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"bombparty/internal/config"
	"bombparty/internal/game"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	store    *Store
	ws       *wsHub
	homeWS   *homeHub
	cfg      config.Config
	bank     *game.WordBank
	settings *SettingsService
	logger   *zap.Logger
	// ctx bounds every running game; Close cancels it.
	ctx      context.Context
	cancel   context.CancelFunc
	timersMu sync.Mutex
	timers   map[string]*time.Timer
	stopped  bool
}

// New builds a server around a word bank. conn may be nil, in which case
// settings are kept in memory.
func New(conn *gorm.DB, cfg config.Config, bank *game.WordBank, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	registerValidators()
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		store:    NewStore(),
		ws:       newWSHub(),
		homeWS:   newHomeHub(),
		cfg:      cfg,
		bank:     bank,
		settings: newSettingsService(conn, cfg.BombTimer()),
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		timers:   make(map[string]*time.Timer),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /lobbies/", s.handleLobbyView)
	mux.HandleFunc("POST /api/lobbies", s.handleCreateLobby)
	mux.HandleFunc("GET /api/lobbies", s.handleListLobbies)
	mux.HandleFunc("GET /api/lobbies/", s.handleLobbySubroutes)
	mux.HandleFunc("POST /api/lobbies/", s.handleLobbySubroutes)
	mux.HandleFunc("GET /api/settings/bombparty", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings/bombparty", s.handlePutSettings)
	mux.HandleFunc("GET /ws/lobbies/", s.handleWebsocket)
	mux.HandleFunc("GET /ws/home", s.handleHomeWebsocket)
	return mux
}

// Close disconnects every websocket and abandons running games. Event
// delivery fails once the hub is closed.
func (s *Server) Close() {
	s.ws.Close()
	s.homeWS.Close()
	s.cancel()
	s.stopTimers()
}

func (s *Server) engineConfig(bombTimer time.Duration) game.EngineConfig {
	return game.EngineConfig{
		BombTimer:         bombTimer,
		ThreeLetterChance: s.cfg.ThreeLetterPromptChance,
		StartDelay:        s.cfg.StartDelay(),
		Countdown:         s.cfg.CountdownSeconds,
		Logger:            s.logger,
	}
}
