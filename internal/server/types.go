package server

type LobbySummary struct {
	ID       string
	JoinCode string
	Phase    string
	Leader   string
	Players  int
}

type EventPayload struct {
	Type        string   `json:"type"`
	LobbyID     string   `json:"lobby_id"`
	Participant string   `json:"participant,omitempty"`
	RosterSize  int      `json:"roster_size"`
	Order       []string `json:"order,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
	Guess       string   `json:"guess,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	Remaining   int      `json:"remaining,omitempty"`
	Reason      string   `json:"reason,omitempty"`
}

type LobbyPayload struct {
	ID       string       `json:"id"`
	JoinCode string       `json:"join_code,omitempty"`
	Phase    string       `json:"phase"`
	Leader   string       `json:"leader"`
	Members  []string     `json:"members"`
	Game     *GamePayload `json:"game,omitempty"`
}

type GamePayload struct {
	State      string   `json:"state"`
	Active     string   `json:"active,omitempty"`
	Prompt     string   `json:"prompt,omitempty"`
	Deadline   string   `json:"deadline,omitempty"`
	Rotation   []string `json:"rotation"`
	Eliminated []string `json:"eliminated"`
	UsedWords  int      `json:"used_words"`
	Winner     string   `json:"winner,omitempty"`
}
