package server

import (
	"time"

	"bombparty/internal/game"
)

func eventPayload(lobbyID string, event game.Event) EventPayload {
	payload := EventPayload{
		Type:        string(event.Type),
		LobbyID:     lobbyID,
		Participant: string(event.Participant),
		RosterSize:  event.RosterSize,
		Prompt:      event.Prompt,
		Guess:       event.Guess,
		Deadline:    formatTime(event.Deadline),
		Remaining:   event.Remaining,
		Reason:      event.Reason,
	}
	if len(event.Order) > 0 {
		payload.Order = participantNames(event.Order)
	}
	return payload
}

func lobbyPayload(snapshot game.LobbySnapshot, joinCode string) LobbyPayload {
	payload := LobbyPayload{
		ID:       snapshot.ID,
		JoinCode: joinCode,
		Phase:    string(snapshot.Phase),
		Leader:   string(snapshot.Leader),
		Members:  participantNames(snapshot.Members),
	}
	if snapshot.Game != nil {
		g := snapshot.Game
		payload.Game = &GamePayload{
			State:      g.State.String(),
			Active:     string(g.Active),
			Prompt:     g.Prompt,
			Deadline:   formatTime(g.Deadline),
			Rotation:   participantNames(g.Rotation),
			Eliminated: participantNames(g.Eliminated),
			UsedWords:  g.UsedWords,
			Winner:     string(g.Winner),
		}
	}
	return payload
}

func participantNames(list []game.Participant) []string {
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, string(p))
	}
	return names
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
