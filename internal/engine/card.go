package engine

import "math/rand"

type Suit string

const (
	SuitSpades   Suit = "S"
	SuitHearts   Suit = "H"
	SuitDiamonds Suit = "D"
	SuitClubs    Suit = "C"
	SuitJoker    Suit = "J"
)

// Card is identified by ID alone; two cards with the same suit and rank
// are still distinct. Rank is 1..13, or 0 for jokers.
type Card struct {
	ID   string `json:"id"`
	Suit Suit   `json:"suit"`
	Rank int    `json:"rank"`
}

func (c Card) IsJoker() bool { return c.Suit == SuitJoker }

type DeckVariant string

const (
	DeckStandard   DeckVariant = "standard"
	DeckEvenHalved DeckVariant = "evenHalved"
)

type PenaltyPolicy string

const (
	PenaltyAlwaysOne    PenaltyPolicy = "alwaysOne"
	PenaltySameAsPlayed PenaltyPolicy = "sameAsPlayed"
)

// RulePreset is fixed at room creation and never mutated.
type RulePreset struct {
	Key         string
	Label       string
	DeckVariant DeckVariant
	HandSize    int
	Penalty     PenaltyPolicy
}

type cardIDFunc func() string

// NewDeck builds the draw pile for a duel: 52 cards plus two jokers.
// The evenHalved variant removes half of the even-rank non-joker cards,
// chosen uniformly without replacement, before any shuffling happens.
func NewDeck(variant DeckVariant, newID cardIDFunc, rng *rand.Rand) []Card {
	deck := make([]Card, 0, 54)
	for _, s := range []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs} {
		for rank := 1; rank <= 13; rank++ {
			deck = append(deck, Card{ID: newID(), Suit: s, Rank: rank})
		}
	}
	deck = append(deck,
		Card{ID: newID(), Suit: SuitJoker, Rank: 0},
		Card{ID: newID(), Suit: SuitJoker, Rank: 0},
	)

	if variant == DeckEvenHalved {
		deck = halveEvens(deck, rng)
	}
	return deck
}

func halveEvens(deck []Card, rng *rand.Rand) []Card {
	var evens []int
	for i, c := range deck {
		if !c.IsJoker() && c.Rank%2 == 0 {
			evens = append(evens, i)
		}
	}
	rng.Shuffle(len(evens), func(i, j int) { evens[i], evens[j] = evens[j], evens[i] })

	remove := map[int]bool{}
	for _, i := range evens[:len(evens)/2] {
		remove[i] = true
	}
	kept := deck[:0]
	for i, c := range deck {
		if !remove[i] {
			kept = append(kept, c)
		}
	}
	return kept
}

// DealHands shuffles the deck and deals one card at a time in
// round-robin order. If the deck cannot cover a full deal, each hand
// gets floor(len(deck)/players) cards and the remainder stays undealt.
// The undealt rest becomes the room's draw pile.
func DealHands(deck []Card, handSize, players int, rng *rand.Rand) (hands [][]Card, rest []Card) {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	per := handSize
	if len(shuffled) < handSize*players {
		per = len(shuffled) / players
	}

	hands = make([][]Card, players)
	idx := 0
	for i := 0; i < per; i++ {
		for p := 0; p < players; p++ {
			hands[p] = append(hands[p], shuffled[idx])
			idx++
		}
	}
	return hands, shuffled[idx:]
}
