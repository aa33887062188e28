package game

import (
	"math/rand/v2"
	"slices"
)

type rosterPhase int

const (
	rosterOpen rosterPhase = iota
	rosterClosed
	rosterAbandoned
)

// Roster is the pre-game membership list. It is not safe for concurrent use;
// Lobby serializes access to it.
type Roster struct {
	members []Participant
	leader  Participant
	phase   rosterPhase
}

// LeaveOutcome describes the side effects of a successful Leave.
type LeaveOutcome struct {
	LeaderChanged bool
	NewLeader     Participant
	Abandoned     bool
}

// NewRoster opens a roster with leader as its only member.
func NewRoster(leader Participant) *Roster {
	return &Roster{
		members: []Participant{leader},
		leader:  leader,
	}
}

func (r *Roster) Join(p Participant) error {
	if r.phase != rosterOpen {
		return ErrLobbyClosed
	}
	if slices.Contains(r.members, p) {
		return ErrAlreadyJoined
	}
	r.members = append(r.members, p)
	return nil
}

func (r *Roster) Leave(p Participant) (LeaveOutcome, error) {
	if r.phase != rosterOpen {
		return LeaveOutcome{}, ErrLobbyClosed
	}
	index := slices.Index(r.members, p)
	if index < 0 {
		return LeaveOutcome{}, ErrNotJoined
	}
	r.members = slices.Delete(r.members, index, index+1)
	if len(r.members) == 0 {
		r.phase = rosterAbandoned
		r.leader = ""
		return LeaveOutcome{Abandoned: true}, nil
	}
	if p != r.leader {
		return LeaveOutcome{}, nil
	}
	r.leader = r.members[0]
	return LeaveOutcome{LeaderChanged: true, NewLeader: r.leader}, nil
}

// Start closes the roster and returns a uniformly random turn order. The
// roster cannot be reopened.
func (r *Roster) Start(requester Participant, rng *rand.Rand) ([]Participant, error) {
	if r.phase != rosterOpen {
		return nil, ErrLobbyClosed
	}
	if requester != r.leader {
		return nil, ErrNotLeader
	}
	if len(r.members) < 2 {
		return nil, ErrInsufficientPlayers
	}
	if rng == nil {
		rng = newRand()
	}
	order := slices.Clone(r.members)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	r.phase = rosterClosed
	return order, nil
}

func (r *Roster) Members() []Participant {
	return slices.Clone(r.members)
}

func (r *Roster) Leader() Participant {
	return r.leader
}

func (r *Roster) Len() int {
	return len(r.members)
}

func (r *Roster) Open() bool {
	return r.phase == rosterOpen
}

func (r *Roster) Abandoned() bool {
	return r.phase == rosterAbandoned
}
