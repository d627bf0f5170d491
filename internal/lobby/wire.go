package lobby

import (
	"errors"

	"primeduel/internal/engine"
	"primeduel/pkg/types"
)

func wireCards(cards []engine.Card) []types.Card {
	out := make([]types.Card, len(cards))
	for i, c := range cards {
		out[i] = types.Card{ID: c.ID, Suit: string(c.Suit), Rank: c.Rank}
	}
	return out
}

// toWire flattens an engine event into the server envelope. The switch
// is exhaustive over the event union; an unknown event is a bug.
func toWire(ev engine.Event) types.ServerMessage {
	switch e := ev.(type) {
	case engine.RoomStatusEvent:
		players := make([]types.PlayerInfo, len(e.Players))
		for i, p := range e.Players {
			players[i] = types.PlayerInfo{ID: p.ID, Name: p.Name, Status: string(p.Status)}
		}
		return types.ServerMessage{
			Type:         "room_status",
			Rule:         e.Rule,
			Players:      players,
			WaitingCount: e.WaitingCount,
		}

	case engine.GameUpdateEvent:
		return types.ServerMessage{
			Type:         "game_update",
			State:        string(e.State),
			CurrentTurn:  e.CurrentTurn,
			ReverseOrder: e.ReverseOrder,
			DeckCount:    e.DeckCount,
			Field:        wireCards(e.Field),
			HandCounts:   e.HandCounts,
		}

	case engine.DealEvent:
		return types.ServerMessage{Type: "deal", PlayerID: e.PlayerID, Hand: wireCards(e.Hand)}

	case engine.GameStartEvent:
		return types.ServerMessage{Type: "game_start"}

	case engine.NextTurnEvent:
		return types.ServerMessage{Type: "next_turn", CurrentTurn: e.CurrentTurn}

	case engine.ActionResultEvent:
		return types.ServerMessage{
			Type:     "action_result",
			Action:   e.Action,
			PlayerID: e.PlayerID,
			Played:   wireCards(e.Played),
			Number:   e.Number,
			Mode:     e.Mode,
		}

	case engine.PenaltyEvent:
		return types.ServerMessage{
			Type:     "penalty",
			PlayerID: e.PlayerID,
			Played:   wireCards(e.Played),
			Number:   e.Number,
			Drawn:    e.Drawn,
		}

	case engine.GameOverEvent:
		return types.ServerMessage{Type: "game_over", Winner: e.Winner}

	case engine.HandUpdateEvent:
		return types.ServerMessage{Type: "hand_update", PlayerID: e.PlayerID, Hand: wireCards(e.Hand)}

	default:
		return types.ServerMessage{Type: "error", ErrorKind: "internal", Error: "unhandled event"}
	}
}

// errorMessage classifies a rejected command for the sender. Proof
// syntax errors are the only non-validation kind that surfaces here;
// math errors never reach this path because they commit as penalties.
func errorMessage(err error) types.ServerMessage {
	kind := "validation"
	var syn *engine.SyntaxError
	if errors.As(err, &syn) {
		kind = "syntax"
	}
	return types.ServerMessage{Type: "error", ErrorKind: kind, Error: err.Error()}
}
