package engine

// Event is emitted by room actions for the transport to deliver.
// Events with a non-empty Target() go only to that player; everything
// else is broadcast to the whole room.
type Event interface {
	Target() string
}

type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// RoomStatusEvent reflects room membership and the duel queue.
type RoomStatusEvent struct {
	Rule         string       `json:"rule"`
	Players      []PlayerInfo `json:"players"`
	WaitingCount int          `json:"waiting_count"`
}

// GameUpdateEvent is the public view of the duel state.
type GameUpdateEvent struct {
	State        DuelState      `json:"state"`
	CurrentTurn  string         `json:"current_turn"`
	ReverseOrder bool           `json:"reverse_order"`
	DeckCount    int            `json:"deck_count"`
	Field        []Card         `json:"field"`
	HandCounts   map[string]int `json:"hand_counts"`
}

// DealEvent carries a freshly dealt hand to its owner only.
type DealEvent struct {
	PlayerID string `json:"player_id"`
	Hand     []Card `json:"hand"`
}

type GameStartEvent struct{}

type NextTurnEvent struct {
	CurrentTurn string `json:"current_turn"`
}

// ActionResultEvent announces a committed play. Action is one of
// "play", "cut", "revolution", "flush" or "pass"; Mode is "prime" or
// "composite".
type ActionResultEvent struct {
	Action   string `json:"action"`
	PlayerID string `json:"player_id"`
	Played   []Card `json:"played"`
	Number   string `json:"number"`
	Mode     string `json:"mode"`
}

// PenaltyEvent announces a committed but illegal play.
type PenaltyEvent struct {
	PlayerID string `json:"player_id"`
	Played   []Card `json:"played"`
	Number   string `json:"number"`
	Drawn    int    `json:"drawn"`
}

type GameOverEvent struct {
	Winner string `json:"winner"`
}

// HandUpdateEvent carries a player's current hand to that player only.
type HandUpdateEvent struct {
	PlayerID string `json:"player_id"`
	Hand     []Card `json:"hand"`
}

func (RoomStatusEvent) Target() string   { return "" }
func (GameUpdateEvent) Target() string   { return "" }
func (e DealEvent) Target() string       { return e.PlayerID }
func (GameStartEvent) Target() string    { return "" }
func (NextTurnEvent) Target() string     { return "" }
func (ActionResultEvent) Target() string { return "" }
func (PenaltyEvent) Target() string      { return "" }
func (GameOverEvent) Target() string     { return "" }
func (e HandUpdateEvent) Target() string { return e.PlayerID }
