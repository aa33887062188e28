package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"bombparty/internal/game"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeGameError maps lobby and game failures onto HTTP statuses. Roster
// rejections carry their code so clients can tell them apart.
func writeGameError(w http.ResponseWriter, err error) {
	var rosterErr *game.RosterError
	switch {
	case errors.As(err, &rosterErr):
		writeJSON(w, rosterStatus(rosterErr), map[string]string{
			"error": rosterErr.Reason,
			"code":  rosterErr.Code,
		})
	case errors.Is(err, game.ErrLobbyClosed):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "lobby is closed",
			"code":  "lobby_closed",
		})
	case errors.Is(err, game.ErrNotInProgress):
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "game is not in progress",
			"code":  "not_in_progress",
		})
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func rosterStatus(err *game.RosterError) int {
	switch err.Code {
	case game.ErrNotJoined.Code:
		return http.StatusNotFound
	case game.ErrNotLeader.Code:
		return http.StatusForbidden
	default:
		return http.StatusConflict
	}
}
