package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBombTimer         = 8 * time.Second
	DefaultCountdownInterval = time.Second
	abandonNoticeTimeout     = 2 * time.Second
)

type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateFinished
	StateAbandoned
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateFinished:
		return "finished"
	case StateAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// EngineConfig is fixed for the lifetime of one game.
type EngineConfig struct {
	BombTimer         time.Duration
	ThreeLetterChance float64
	// StartDelay and Countdown run before the first turn. Countdown emits one
	// event per CountdownInterval, counting down to 1.
	StartDelay        time.Duration
	Countdown         int
	CountdownInterval time.Duration
	Rand              *rand.Rand
	Logger            *zap.Logger
	Now               func() time.Time
}

// GameSnapshot is a point-in-time copy of a running game.
type GameSnapshot struct {
	State      State
	Active     Participant
	Prompt     string
	Deadline   time.Time
	Rotation   []Participant
	Eliminated []Participant
	UsedWords  int
	Winner     Participant
}

type guessSubmission struct {
	participant Participant
	text        string
	at          time.Time
	reply       chan bool
}

// Engine runs the elimination loop for one game. Run drives it from a single
// goroutine; SubmitGuess and Snapshot are safe to call from any goroutine.
type Engine struct {
	cfg     EngineConfig
	bank    *WordBank
	prompts *PromptGenerator
	sink    Sink
	logger  *zap.Logger
	now     func() time.Time

	guesses chan guessSubmission
	done    chan struct{}

	mu         sync.Mutex
	state      State
	rotation   []Participant
	eliminated []Participant
	active     Participant
	prompt     Prompt
	deadline   time.Time
	used       UsedWords
	winner     Participant
}

func NewEngine(order []Participant, bank *WordBank, sink Sink, cfg EngineConfig) (*Engine, error) {
	if bank.Len() == 0 {
		return nil, ErrEmptyWordBank
	}
	if len(order) < 2 {
		return nil, ErrInsufficientPlayers
	}
	if cfg.BombTimer <= 0 {
		return nil, fmt.Errorf("bomb timer must be positive, got %s", cfg.BombTimer)
	}
	if sink == nil {
		return nil, errors.New("event sink is nil")
	}
	if cfg.CountdownInterval <= 0 {
		cfg.CountdownInterval = DefaultCountdownInterval
	}
	if cfg.Rand == nil {
		cfg.Rand = newRand()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cfg:      cfg,
		bank:     bank,
		prompts:  NewPromptGenerator(bank, cfg.Rand, cfg.ThreeLetterChance),
		sink:     sink,
		logger:   logger,
		now:      now,
		guesses:  make(chan guessSubmission),
		done:     make(chan struct{}),
		rotation: slices.Clone(order),
		used:     make(UsedWords),
	}, nil
}

// Run plays the game to completion. It returns nil when a winner is declared
// and an error when the game was abandoned. Cancelling ctx abandons the game.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateNotStarted {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	e.state = StateInProgress
	e.mu.Unlock()
	defer close(e.done)

	if err := e.countdown(ctx); err != nil {
		return e.abandon(ctx, err)
	}
	prompt, err := e.prompts.Next()
	if err != nil {
		return e.abandon(ctx, err)
	}
	e.setPrompt(prompt)

	for e.remaining() > 1 {
		if err := e.playTurn(ctx); err != nil {
			return e.abandon(ctx, err)
		}
	}

	e.mu.Lock()
	winner := e.rotation[0]
	e.winner = winner
	e.active = ""
	e.state = StateFinished
	e.mu.Unlock()
	e.logger.Info("game won", zap.String("participant", string(winner)))
	if err := e.publish(ctx, Event{Type: EventGameWon, Participant: winner}); err != nil {
		e.logger.Warn("announce winner failed", zap.Error(err))
		return err
	}
	return nil
}

// SubmitGuess offers a guess to the running game. at is when the guess was
// received; the zero time means now. The result reports whether the guess
// resolved the current turn.
func (e *Engine) SubmitGuess(ctx context.Context, participant Participant, text string, at time.Time) (bool, error) {
	if e.State() != StateInProgress {
		return false, ErrNotInProgress
	}
	if at.IsZero() {
		at = e.now()
	}
	sub := guessSubmission{
		participant: participant,
		text:        text,
		at:          at,
		reply:       make(chan bool, 1),
	}
	select {
	case e.guesses <- sub:
	case <-e.done:
		return false, ErrNotInProgress
	case <-ctx.Done():
		return false, ctx.Err()
	}
	// Every received submission is answered before the engine moves on.
	select {
	case accepted := <-sub.reply:
		return accepted, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Done() <-chan struct{} {
	return e.done
}

func (e *Engine) Snapshot() GameSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return GameSnapshot{
		State:      e.state,
		Active:     e.active,
		Prompt:     e.prompt.Text,
		Deadline:   e.deadline,
		Rotation:   slices.Clone(e.rotation),
		Eliminated: slices.Clone(e.eliminated),
		UsedWords:  len(e.used),
		Winner:     e.winner,
	}
}

func (e *Engine) countdown(ctx context.Context) error {
	if err := sleep(ctx, e.cfg.StartDelay); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	for remaining := e.cfg.Countdown; remaining > 0; remaining-- {
		if err := e.publish(ctx, Event{Type: EventCountdown, Remaining: remaining}); err != nil {
			return err
		}
		if err := sleep(ctx, e.cfg.CountdownInterval); err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}
	return nil
}

func (e *Engine) playTurn(ctx context.Context) error {
	startedAt := e.now()
	deadline := startedAt.Add(e.cfg.BombTimer)

	e.mu.Lock()
	active := e.rotation[0]
	e.rotation = e.rotation[1:]
	e.active = active
	e.deadline = deadline
	prompt := e.prompt
	e.mu.Unlock()

	e.logger.Debug("turn started",
		zap.String("participant", string(active)),
		zap.String("prompt", prompt.Text),
	)
	if err := e.publish(ctx, Event{
		Type:        EventTurnStarted,
		Participant: active,
		Prompt:      prompt.Text,
		Deadline:    deadline,
	}); err != nil {
		return err
	}

	// The timer is local to this turn, so it cannot fire into a later one.
	timer := time.NewTimer(deadline.Sub(e.now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
		case sub := <-e.guesses:
			if e.answer(sub, active, prompt, startedAt, deadline) {
				return e.succeed(ctx, active, sub.text)
			}
		case <-timer.C:
			// A qualifying guess already waiting at expiry was registered
			// first and wins.
			if sub, ok := e.drainPending(active, prompt, startedAt, deadline); ok {
				return e.succeed(ctx, active, sub.text)
			}
			return e.fail(ctx, active)
		}
	}
}

// answer replies to sub and reports whether it resolves the turn.
func (e *Engine) answer(sub guessSubmission, active Participant, prompt Prompt, startedAt, deadline time.Time) bool {
	accepted := sub.participant == active &&
		!sub.at.Before(startedAt) &&
		sub.at.Before(deadline) &&
		ValidateGuess(sub.text, prompt.Text, e.bank, e.usedWords())
	sub.reply <- accepted
	return accepted
}

func (e *Engine) drainPending(active Participant, prompt Prompt, startedAt, deadline time.Time) (guessSubmission, bool) {
	for {
		select {
		case sub := <-e.guesses:
			if e.answer(sub, active, prompt, startedAt, deadline) {
				return sub, true
			}
		default:
			return guessSubmission{}, false
		}
	}
}

func (e *Engine) succeed(ctx context.Context, active Participant, guess string) error {
	next, err := e.prompts.Next()
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.used.Add(normalizeWord(guess))
	e.rotation = append(e.rotation, active)
	e.prompt = next
	e.active = ""
	e.mu.Unlock()

	e.logger.Debug("turn succeeded",
		zap.String("participant", string(active)),
		zap.String("guess", guess),
	)
	return e.publish(ctx, Event{Type: EventTurnSucceeded, Participant: active, Guess: guess})
}

func (e *Engine) fail(ctx context.Context, active Participant) error {
	e.mu.Lock()
	e.eliminated = append(e.eliminated, active)
	e.active = ""
	remaining := len(e.rotation)
	e.mu.Unlock()

	e.logger.Debug("participant eliminated", zap.String("participant", string(active)), zap.Int("remaining", remaining))
	return e.publish(ctx, Event{Type: EventTurnFailed, Participant: active, Remaining: remaining})
}

func (e *Engine) abandon(ctx context.Context, cause error) error {
	e.mu.Lock()
	e.state = StateAbandoned
	e.active = ""
	e.mu.Unlock()

	e.logger.Warn("game abandoned", zap.Error(cause))
	noticeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), abandonNoticeTimeout)
	defer cancel()
	if err := e.sink.Publish(noticeCtx, Event{Type: EventGameAbandoned, Reason: cause.Error()}); err != nil {
		e.logger.Debug("abandon notice not delivered", zap.Error(err))
	}
	return cause
}

func (e *Engine) publish(ctx context.Context, event Event) error {
	if err := e.sink.Publish(ctx, event); err != nil {
		if errors.Is(err, ErrTransport) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

func (e *Engine) setPrompt(prompt Prompt) {
	e.mu.Lock()
	e.prompt = prompt
	e.mu.Unlock()
}

func (e *Engine) remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.rotation)
}

// usedWords is read only from the Run goroutine, which is also the only
// writer, so no copy is needed.
func (e *Engine) usedWords() UsedWords {
	return e.used
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
