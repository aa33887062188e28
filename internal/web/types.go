package web

type LobbySummary struct {
	ID       string `json:"id"`
	JoinCode string `json:"join_code"`
	Phase    string `json:"phase"`
	Leader   string `json:"leader"`
	Players  int    `json:"players"`
}
