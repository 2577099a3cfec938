package entity

// Player - websocket session identity; stats are keyed by ID.
type Player struct {
	ID     string `json:"id"`
	GameID string `json:"game_id,omitempty"`
}
