package game

import "errors"

// RosterError is returned for lobby membership commands that cannot be applied.
// The roster is left unchanged when one is returned.
type RosterError struct {
	Code   string
	Reason string
}

func (e *RosterError) Error() string {
	return e.Reason
}

var (
	ErrAlreadyJoined       = &RosterError{Code: "already_joined", Reason: "already joined"}
	ErrNotJoined           = &RosterError{Code: "not_joined", Reason: "not joined"}
	ErrNotLeader           = &RosterError{Code: "not_leader", Reason: "not the lobby leader"}
	ErrInsufficientPlayers = &RosterError{Code: "insufficient_players", Reason: "at least 2 players are required"}
)

var (
	ErrEmptyWordBank  = errors.New("word bank is empty")
	ErrLobbyClosed    = errors.New("lobby closed")
	ErrNotInProgress  = errors.New("game not in progress")
	ErrTransport      = errors.New("transport failure")
	ErrAlreadyStarted = errors.New("engine already started")
)
