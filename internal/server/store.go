package server

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"bombparty/internal/game"
)

type lobbyEntry struct {
	lobby    *game.Lobby
	joinCode string
	seq      uint64
}

// Store indexes the live lobbies by id and join code.
type Store struct {
	mu      sync.Mutex
	lobbies map[string]*lobbyEntry
	codes   map[string]string
	seq     uint64
}

func NewStore() *Store {
	return &Store{
		lobbies: make(map[string]*lobbyEntry),
		codes:   make(map[string]string),
	}
}

// AddLobby registers a lobby under a fresh join code and returns the code.
func (s *Store) AddLobby(lobby *game.Lobby) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.lobbies[lobby.ID()]; exists {
		return "", errors.New("lobby already registered")
	}
	code := newJoinCode()
	for attempts := 0; s.codes[code] != ""; attempts++ {
		if attempts > 16 {
			return "", errors.New("join codes exhausted")
		}
		code = newJoinCode()
	}
	s.seq++
	s.lobbies[lobby.ID()] = &lobbyEntry{
		lobby:    lobby,
		joinCode: code,
		seq:      s.seq,
	}
	s.codes[code] = lobby.ID()
	return code, nil
}

// GetLobby resolves a lobby id or join code.
func (s *Store) GetLobby(idOrCode string) (*game.Lobby, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lobbies[idOrCode]
	if !ok {
		if id, found := s.codes[strings.ToUpper(idOrCode)]; found {
			entry, ok = s.lobbies[id]
		}
	}
	if !ok {
		return nil, "", false
	}
	return entry.lobby, entry.joinCode, true
}

func (s *Store) RemoveLobby(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lobbies[id]
	if !ok {
		return false
	}
	delete(s.codes, entry.joinCode)
	delete(s.lobbies, id)
	return true
}

// ListLobbySummaries returns the lobbies in creation order.
func (s *Store) ListLobbySummaries() []LobbySummary {
	s.mu.Lock()
	entries := make([]*lobbyEntry, 0, len(s.lobbies))
	for _, entry := range s.lobbies {
		entries = append(entries, entry)
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})
	list := make([]LobbySummary, 0, len(entries))
	for _, entry := range entries {
		snapshot := entry.lobby.Snapshot()
		list = append(list, LobbySummary{
			ID:       snapshot.ID,
			JoinCode: entry.joinCode,
			Phase:    string(snapshot.Phase),
			Leader:   string(snapshot.Leader),
			Players:  len(snapshot.Members),
		})
	}
	return list
}
