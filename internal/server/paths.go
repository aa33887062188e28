package server

import "strings"

// parseLobbyPath splits /api/lobbies/{id}[/{action}].
func parseLobbyPath(path string) (string, string, bool) {
	const prefix = "/api/lobbies/"
	if !strings.HasPrefix(path, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "", "", false
	}
	lobbyID := parts[0]
	if len(parts) == 1 {
		return lobbyID, "", true
	}
	if len(parts) == 2 {
		return lobbyID, parts[1], true
	}
	return "", "", false
}

func parseWebsocketPath(path string) (string, bool) {
	return parseSingleSegment(path, "/ws/lobbies/")
}

func parseLobbyViewPath(path string) (string, bool) {
	return parseSingleSegment(path, "/lobbies/")
}

func parseSingleSegment(path, prefix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
