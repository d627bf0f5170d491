package types

// Token is one element of a composite-mode factorization proof on the
// wire: exactly one of Card (a card id) or Op ("*" or "^") is set.
type Token struct {
	Card string `json:"card,omitempty"`
	Op   string `json:"op,omitempty"`
}

// ClientMessage is the single envelope for everything a session sends.
// Type selects the command; the other fields are per-type payload.
type ClientMessage struct {
	Type string `json:"type"`

	// set_status
	Status string `json:"status,omitempty"`

	// play_prime
	Cards  []string `json:"cards,omitempty"`
	Jokers []int    `json:"jokers,omitempty"`

	// play_composite
	Selected       []string `json:"selected,omitempty"`
	SelectedJokers []int    `json:"selected_jokers,omitempty"`
	Consume        []string `json:"consume,omitempty"`
	Tokens         []Token  `json:"tokens,omitempty"`
	ProofJokers    []int    `json:"proof_jokers,omitempty"`

	// chat
	Message string `json:"message,omitempty"`
}

type Card struct {
	ID   string `json:"id"`
	Suit string `json:"suit"`
	Rank int    `json:"rank"`
}

type PlayerInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type RoomInfo struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Players int    `json:"players"`
	Waiting int    `json:"waiting"`
	State   string `json:"state"`
}

// ServerMessage is the single envelope for everything delivered to a
// session. Type is one of: your_id, room_status, game_update, deal,
// game_start, next_turn, action_result, penalty, game_over,
// hand_update, chat, room_list, error.
type ServerMessage struct {
	Type string `json:"type"`

	PlayerID string `json:"player_id,omitempty"`

	// room_status
	Rule         string       `json:"rule,omitempty"`
	Players      []PlayerInfo `json:"players,omitempty"`
	WaitingCount int          `json:"waiting_count,omitempty"`

	// game_update
	State        string         `json:"state,omitempty"`
	CurrentTurn  string         `json:"current_turn,omitempty"`
	ReverseOrder bool           `json:"reverse_order,omitempty"`
	DeckCount    int            `json:"deck_count,omitempty"`
	Field        []Card         `json:"field,omitempty"`
	HandCounts   map[string]int `json:"hand_counts,omitempty"`

	// deal, hand_update
	Hand []Card `json:"hand,omitempty"`

	// action_result, penalty
	Action string `json:"action,omitempty"`
	Played []Card `json:"played,omitempty"`
	Number string `json:"number,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Drawn  int    `json:"drawn,omitempty"`

	// game_over
	Winner string `json:"winner,omitempty"`

	// chat
	Sender  string `json:"sender,omitempty"`
	Message string `json:"message,omitempty"`

	// room_list
	Rooms []RoomInfo `json:"rooms,omitempty"`

	// error
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}
