package engine

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func idSeq() cardIDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}
}

func TestNewDeck_Standard(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	deck := NewDeck(DeckStandard, idSeq(), rng)
	require.Len(t, deck, 54)

	jokers := 0
	ids := map[string]bool{}
	for _, c := range deck {
		require.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
		if c.IsJoker() {
			jokers++
			require.Equal(t, 0, c.Rank)
		} else {
			require.GreaterOrEqual(t, c.Rank, 1)
			require.LessOrEqual(t, c.Rank, 13)
		}
	}
	require.Equal(t, 2, jokers)
}

func TestNewDeck_EvenHalved(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	deck := NewDeck(DeckEvenHalved, idSeq(), rng)
	// 24 even-rank cards halved: 54 - 12.
	require.Len(t, deck, 42)

	evens, jokers := 0, 0
	for _, c := range deck {
		if c.IsJoker() {
			jokers++
		} else if c.Rank%2 == 0 {
			evens++
		}
	}
	require.Equal(t, 12, evens)
	require.Equal(t, 2, jokers, "jokers must never be removed")
}

func TestDealHands_Full(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	deck := NewDeck(DeckStandard, idSeq(), rng)
	hands, rest := DealHands(deck, 5, 2, rng)

	require.Len(t, hands, 2)
	require.Len(t, hands[0], 5)
	require.Len(t, hands[1], 5)
	require.Len(t, rest, 44)

	seen := map[string]bool{}
	for _, h := range hands {
		for _, c := range h {
			require.False(t, seen[c.ID])
			seen[c.ID] = true
		}
	}
	for _, c := range rest {
		require.False(t, seen[c.ID])
		seen[c.ID] = true
	}
	require.Len(t, seen, 54)
}

func TestDealHands_ShortDeck(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	newID := idSeq()
	deck := make([]Card, 7)
	for i := range deck {
		deck[i] = Card{ID: newID(), Suit: SuitSpades, Rank: i + 1}
	}

	hands, rest := DealHands(deck, 5, 2, rng)
	require.Len(t, hands[0], 3)
	require.Len(t, hands[1], 3)
	require.Len(t, rest, 1, "undealt remainder stays out of all hands")
}
