package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventWait = 2 * time.Second

func expectEvent(t *testing.T, events <-chan Event, want EventType) Event {
	t.Helper()
	select {
	case event := <-events:
		require.Equal(t, want, event.Type, "unexpected event %+v", event)
		return event
	case <-time.After(eventWait):
		t.Fatalf("timed out waiting for %s", want)
		return Event{}
	}
}

func startEngine(t *testing.T, engine *Engine) <-chan error {
	t.Helper()
	errs := make(chan error, 1)
	go func() {
		errs <- engine.Run(context.Background())
	}()
	return errs
}

func waitRun(t *testing.T, errs <-chan error) error {
	t.Helper()
	select {
	case err := <-errs:
		return err
	case <-time.After(eventWait):
		t.Fatal("engine did not stop")
		return nil
	}
}

func TestEngineTimeoutEliminatesAndDeclaresWinner(t *testing.T) {
	events := make(ChannelSink, 32)
	engine, err := NewEngine([]Participant{"a", "b"}, newTestBank(t, "cat"), events, EngineConfig{
		BombTimer: 20 * time.Millisecond,
		Rand:      testRand(),
	})
	require.NoError(t, err)
	errs := startEngine(t, engine)

	started := expectEvent(t, events, EventTurnStarted)
	assert.Equal(t, Participant("a"), started.Participant)
	assert.Contains(t, []string{"ca", "at", "cat"}, started.Prompt)
	assert.False(t, started.Deadline.IsZero())

	failed := expectEvent(t, events, EventTurnFailed)
	assert.Equal(t, Participant("a"), failed.Participant)
	assert.Equal(t, 1, failed.Remaining)
	won := expectEvent(t, events, EventGameWon)
	assert.Equal(t, Participant("b"), won.Participant)

	require.NoError(t, waitRun(t, errs))
	assert.Empty(t, events, "no turn may start after the winner is declared")

	snapshot := engine.Snapshot()
	assert.Equal(t, StateFinished, snapshot.State)
	assert.Equal(t, Participant("b"), snapshot.Winner)
	assert.Equal(t, []Participant{"a"}, snapshot.Eliminated)
}

func TestEngineValidGuessKeepsPlayerInRotation(t *testing.T) {
	events := make(ChannelSink, 32)
	engine, err := NewEngine([]Participant{"a", "b"}, newTestBank(t, "cat"), events, EngineConfig{
		BombTimer: 300 * time.Millisecond,
		Rand:      testRand(),
	})
	require.NoError(t, err)
	errs := startEngine(t, engine)
	ctx := context.Background()

	expectEvent(t, events, EventTurnStarted)

	accepted, err := engine.SubmitGuess(ctx, "b", "cat", time.Time{})
	require.NoError(t, err)
	assert.False(t, accepted, "guess from a waiting player must be ignored")

	accepted, err = engine.SubmitGuess(ctx, "a", "dog", time.Time{})
	require.NoError(t, err)
	assert.False(t, accepted)

	accepted, err = engine.SubmitGuess(ctx, "a", "CAT", time.Time{})
	require.NoError(t, err)
	assert.True(t, accepted)

	succeeded := expectEvent(t, events, EventTurnSucceeded)
	assert.Equal(t, Participant("a"), succeeded.Participant)
	assert.Equal(t, "CAT", succeeded.Guess)

	next := expectEvent(t, events, EventTurnStarted)
	assert.Equal(t, Participant("b"), next.Participant)
	snapshot := engine.Snapshot()
	assert.Equal(t, []Participant{"a"}, snapshot.Rotation)
	assert.Equal(t, 1, snapshot.UsedWords)

	accepted, err = engine.SubmitGuess(ctx, "b", "cat", time.Time{})
	require.NoError(t, err)
	assert.False(t, accepted, "a word is only accepted once per game")

	failed := expectEvent(t, events, EventTurnFailed)
	assert.Equal(t, Participant("b"), failed.Participant)
	won := expectEvent(t, events, EventGameWon)
	assert.Equal(t, Participant("a"), won.Participant)
	require.NoError(t, waitRun(t, errs))
}

func TestEngineRejectsGuessOutsideTurnWindow(t *testing.T) {
	events := make(ChannelSink, 32)
	engine, err := NewEngine([]Participant{"a", "b"}, newTestBank(t, "cat"), events, EngineConfig{
		BombTimer: 200 * time.Millisecond,
		Rand:      testRand(),
	})
	require.NoError(t, err)
	errs := startEngine(t, engine)

	started := expectEvent(t, events, EventTurnStarted)
	ctx := context.Background()

	accepted, err := engine.SubmitGuess(ctx, "a", "cat", started.Deadline.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, accepted, "guess sent before the turn began")

	accepted, err = engine.SubmitGuess(ctx, "a", "cat", started.Deadline)
	require.NoError(t, err)
	assert.False(t, accepted, "guess at the deadline loses to expiry")

	expectEvent(t, events, EventTurnFailed)
	expectEvent(t, events, EventGameWon)
	require.NoError(t, waitRun(t, errs))
}

func TestEngineEliminatedPlayersNeverReturn(t *testing.T) {
	events := make(ChannelSink, 64)
	order := []Participant{"a", "b", "c", "d"}
	engine, err := NewEngine(order, newTestBank(t, "cat"), events, EngineConfig{
		BombTimer: 10 * time.Millisecond,
		Rand:      testRand(),
	})
	require.NoError(t, err)
	errs := startEngine(t, engine)

	eliminated := map[Participant]bool{}
	for range len(order) - 1 {
		started := expectEvent(t, events, EventTurnStarted)
		assert.False(t, eliminated[started.Participant], "%s was scheduled after elimination", started.Participant)
		failed := expectEvent(t, events, EventTurnFailed)
		assert.Equal(t, started.Participant, failed.Participant)
		eliminated[failed.Participant] = true
	}
	won := expectEvent(t, events, EventGameWon)
	assert.Equal(t, Participant("d"), won.Participant)
	require.NoError(t, waitRun(t, errs))
}

func TestEngineConcurrentGuessesResolveOnce(t *testing.T) {
	events := make(ChannelSink, 32)
	engine, err := NewEngine([]Participant{"a", "b"}, newTestBank(t, "cat"), events, EngineConfig{
		BombTimer: 300 * time.Millisecond,
		Rand:      testRand(),
	})
	require.NoError(t, err)
	errs := startEngine(t, engine)
	expectEvent(t, events, EventTurnStarted)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			accepted, err := engine.SubmitGuess(context.Background(), "a", "cat", time.Time{})
			if err == nil && accepted {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())

	expectEvent(t, events, EventTurnSucceeded)
	expectEvent(t, events, EventTurnStarted)
	expectEvent(t, events, EventTurnFailed)
	expectEvent(t, events, EventGameWon)
	require.NoError(t, waitRun(t, errs))
}

func TestEngineCountdown(t *testing.T) {
	events := make(ChannelSink, 32)
	engine, err := NewEngine([]Participant{"a", "b"}, newTestBank(t, "cat"), events, EngineConfig{
		BombTimer:         10 * time.Millisecond,
		StartDelay:        time.Millisecond,
		Countdown:         2,
		CountdownInterval: time.Millisecond,
		Rand:              testRand(),
	})
	require.NoError(t, err)
	errs := startEngine(t, engine)

	assert.Equal(t, 2, expectEvent(t, events, EventCountdown).Remaining)
	assert.Equal(t, 1, expectEvent(t, events, EventCountdown).Remaining)
	expectEvent(t, events, EventTurnStarted)
	expectEvent(t, events, EventTurnFailed)
	expectEvent(t, events, EventGameWon)
	require.NoError(t, waitRun(t, errs))
}

func TestEngineTransportFailureAbandons(t *testing.T) {
	var mu sync.Mutex
	var published []EventType
	sink := SinkFunc(func(ctx context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, event.Type)
		if event.Type == EventTurnStarted {
			return errors.New("connection reset")
		}
		return nil
	})
	engine, err := NewEngine([]Participant{"a", "b"}, newTestBank(t, "cat"), sink, EngineConfig{
		BombTimer: time.Second,
		Rand:      testRand(),
	})
	require.NoError(t, err)

	err = engine.Run(context.Background())
	require.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, StateAbandoned, engine.State())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []EventType{EventTurnStarted, EventGameAbandoned}, published)
}

func TestEngineCancelAbandons(t *testing.T) {
	events := make(ChannelSink, 32)
	engine, err := NewEngine([]Participant{"a", "b"}, newTestBank(t, "cat"), events, EngineConfig{
		BombTimer: time.Minute,
		Rand:      testRand(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		errs <- engine.Run(ctx)
	}()
	expectEvent(t, events, EventTurnStarted)
	cancel()

	require.ErrorIs(t, waitRun(t, errs), ErrTransport)
	abandoned := expectEvent(t, events, EventGameAbandoned)
	assert.NotEmpty(t, abandoned.Reason)
	assert.Equal(t, StateAbandoned, engine.State())

	_, err = engine.SubmitGuess(context.Background(), "a", "cat", time.Time{})
	assert.ErrorIs(t, err, ErrNotInProgress)
}

func TestEngineCancelDuringCountdownAbandons(t *testing.T) {
	events := make(ChannelSink, 32)
	engine, err := NewEngine([]Participant{"a", "b"}, newTestBank(t, "cat"), events, EngineConfig{
		BombTimer:         time.Second,
		StartDelay:        time.Millisecond,
		Countdown:         3,
		CountdownInterval: time.Minute,
		Rand:              testRand(),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		errs <- engine.Run(ctx)
	}()
	assert.Equal(t, 3, expectEvent(t, events, EventCountdown).Remaining)
	cancel()

	err = waitRun(t, errs)
	require.ErrorIs(t, err, ErrTransport)
	assert.ErrorContains(t, err, context.Canceled.Error())
	expectEvent(t, events, EventGameAbandoned)
	assert.Equal(t, StateAbandoned, engine.State())
}

func TestEngineRunsOnce(t *testing.T) {
	events := make(ChannelSink, 32)
	engine, err := NewEngine([]Participant{"a", "b"}, newTestBank(t, "cat"), events, EngineConfig{
		BombTimer: 5 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, engine.Run(context.Background()))
	assert.ErrorIs(t, engine.Run(context.Background()), ErrAlreadyStarted)

	_, err = engine.SubmitGuess(context.Background(), "a", "cat", time.Time{})
	assert.ErrorIs(t, err, ErrNotInProgress)
}

func TestNewEngineValidates(t *testing.T) {
	bank := newTestBank(t, "cat")
	sink := make(ChannelSink, 1)

	_, err := NewEngine([]Participant{"a"}, bank, sink, EngineConfig{BombTimer: time.Second})
	assert.ErrorIs(t, err, ErrInsufficientPlayers)

	_, err = NewEngine([]Participant{"a", "b"}, bank, sink, EngineConfig{})
	assert.Error(t, err)

	_, err = NewEngine([]Participant{"a", "b"}, nil, sink, EngineConfig{BombTimer: time.Second})
	assert.ErrorIs(t, err, ErrEmptyWordBank)

	_, err = NewEngine([]Participant{"a", "b"}, bank, nil, EngineConfig{BombTimer: time.Second})
	assert.Error(t, err)
}
