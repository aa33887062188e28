package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

type LobbyPhase string

const (
	LobbyOpen       LobbyPhase = "open"
	LobbyInProgress LobbyPhase = "in_progress"
	LobbyFinished   LobbyPhase = "finished"
	LobbyAbandoned  LobbyPhase = "abandoned"
)

// LobbySnapshot is a point-in-time copy of a lobby. Game is nil until the
// lobby has started.
type LobbySnapshot struct {
	ID      string
	Phase   LobbyPhase
	Leader  Participant
	Members []Participant
	Game    *GameSnapshot
}

// Lobby owns one roster and, once started, the engine built from it.
// Membership commands and Start are serialized, so Start always sees the
// final membership.
type Lobby struct {
	id     string
	bank   *WordBank
	sink   Sink
	cfg    EngineConfig
	logger *zap.Logger

	mu     sync.Mutex
	roster *Roster
	engine *Engine
	done   chan struct{}
}

func NewLobby(id string, leader Participant, bank *WordBank, sink Sink, cfg EngineConfig) (*Lobby, error) {
	if bank.Len() == 0 {
		return nil, ErrEmptyWordBank
	}
	if sink == nil {
		return nil, errors.New("event sink is nil")
	}
	if cfg.BombTimer <= 0 {
		return nil, fmt.Errorf("bomb timer must be positive, got %s", cfg.BombTimer)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("lobby_id", id))
	cfg.Logger = logger
	return &Lobby{
		id:     id,
		bank:   bank,
		sink:   sink,
		cfg:    cfg,
		logger: logger,
		roster: NewRoster(leader),
		done:   make(chan struct{}),
	}, nil
}

func (l *Lobby) ID() string {
	return l.id
}

// Done is closed once the lobby is abandoned or its game has stopped.
func (l *Lobby) Done() <-chan struct{} {
	return l.done
}

func (l *Lobby) Join(ctx context.Context, p Participant) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.roster.Join(p); err != nil {
		return err
	}
	l.logger.Info("player joined", zap.String("participant", string(p)), zap.Int("roster_size", l.roster.Len()))
	l.notify(ctx, Event{Type: EventPlayerJoined, Participant: p, RosterSize: l.roster.Len()})
	return nil
}

func (l *Lobby) Leave(ctx context.Context, p Participant) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	outcome, err := l.roster.Leave(p)
	if err != nil {
		return err
	}
	l.logger.Info("player left", zap.String("participant", string(p)), zap.Int("roster_size", l.roster.Len()))
	l.notify(ctx, Event{Type: EventPlayerLeft, Participant: p, RosterSize: l.roster.Len()})
	switch {
	case outcome.Abandoned:
		l.logger.Info("lobby abandoned")
		l.notify(ctx, Event{Type: EventLobbyAbandoned})
		close(l.done)
	case outcome.LeaderChanged:
		l.logger.Info("leader changed", zap.String("participant", string(outcome.NewLeader)))
		l.notify(ctx, Event{Type: EventLeaderChanged, Participant: outcome.NewLeader})
	}
	return nil
}

// Start closes the roster and runs the game in a new goroutine. ctx governs
// the whole game, not just the call: cancelling it abandons the game.
func (l *Lobby) Start(ctx context.Context, requester Participant) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, err := l.roster.Start(requester, l.rng())
	if err != nil {
		return err
	}
	engine, err := NewEngine(order, l.bank, l.sink, l.cfg)
	if err != nil {
		return err
	}
	l.engine = engine
	l.logger.Info("game started", zap.Int("players", len(order)), zap.Duration("bomb_timer", l.cfg.BombTimer))
	l.notify(ctx, Event{Type: EventGameStarted, Order: order, RosterSize: len(order)})

	go func() {
		defer close(l.done)
		if err := engine.Run(ctx); err != nil {
			l.logger.Warn("game stopped", zap.Error(err))
		}
	}()
	return nil
}

func (l *Lobby) SubmitGuess(ctx context.Context, p Participant, text string, at time.Time) (bool, error) {
	l.mu.Lock()
	engine := l.engine
	l.mu.Unlock()
	if engine == nil {
		return false, ErrNotInProgress
	}
	return engine.SubmitGuess(ctx, p, text, at)
}

func (l *Lobby) Snapshot() LobbySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot := LobbySnapshot{
		ID:      l.id,
		Phase:   LobbyOpen,
		Leader:  l.roster.Leader(),
		Members: l.roster.Members(),
	}
	if l.roster.Abandoned() {
		snapshot.Phase = LobbyAbandoned
	}
	if l.engine != nil {
		game := l.engine.Snapshot()
		snapshot.Game = &game
		switch game.State {
		case StateFinished:
			snapshot.Phase = LobbyFinished
		case StateAbandoned:
			snapshot.Phase = LobbyAbandoned
		default:
			snapshot.Phase = LobbyInProgress
		}
	}
	return snapshot
}

// rng hands the roster the configured source before the engine takes
// ownership of it.
func (l *Lobby) rng() *rand.Rand {
	if l.cfg.Rand == nil {
		l.cfg.Rand = newRand()
	}
	return l.cfg.Rand
}

// notify publishes a lobby event. Membership changes are already applied, so
// a delivery failure is logged rather than returned.
func (l *Lobby) notify(ctx context.Context, event Event) {
	if err := l.sink.Publish(ctx, event); err != nil {
		l.logger.Warn("lobby event not delivered", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
