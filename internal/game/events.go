package game

import (
	"context"
	"fmt"
	"time"
)

// Participant is an opaque identity handle supplied by the transport.
type Participant string

type EventType string

const (
	EventPlayerJoined   EventType = "player_joined"
	EventPlayerLeft     EventType = "player_left"
	EventLeaderChanged  EventType = "leader_changed"
	EventLobbyAbandoned EventType = "lobby_abandoned"
	EventGameStarted    EventType = "game_started"
	EventCountdown      EventType = "countdown"
	EventTurnStarted    EventType = "turn_started"
	EventTurnSucceeded  EventType = "turn_succeeded"
	EventTurnFailed     EventType = "turn_failed"
	EventGameWon        EventType = "game_won"
	EventGameAbandoned  EventType = "game_abandoned"
)

// Event is a lobby or game lifecycle notification. Only the fields relevant
// to Type are set.
type Event struct {
	Type        EventType
	Participant Participant
	RosterSize  int
	Order       []Participant
	Prompt      string
	Guess       string
	Deadline    time.Time
	Remaining   int
	Reason      string
}

// Sink receives events in the order they happen. A Publish error while a game
// is running abandons that game.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

type SinkFunc func(ctx context.Context, event Event) error

func (f SinkFunc) Publish(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// ChannelSink delivers events over a channel.
type ChannelSink chan Event

func (c ChannelSink) Publish(ctx context.Context, event Event) error {
	select {
	case c <- event:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
	}
}
