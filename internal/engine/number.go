package engine

import (
	"math/big"
	"strconv"
	"strings"
)

// JokerInfinite is the assignment sentinel for a lone-joker flush play.
const JokerInfinite = -1

// BuildNumber forms the decimal value of an ordered play. Each joker in
// the play consumes the next entry of jokers (0..13). A single joker
// assigned JokerInfinite is a flush signal, reported via the second
// return; in every other position JokerInfinite is rejected.
func BuildNumber(cards []Card, jokers []int) (*big.Int, bool, error) {
	if len(cards) == 0 {
		return nil, false, ErrEmptyPlay
	}
	jokerCount := 0
	for _, c := range cards {
		if c.IsJoker() {
			jokerCount++
		}
	}
	if len(jokers) != jokerCount {
		return nil, false, ErrJokerCount
	}

	if len(cards) == 1 && cards[0].IsJoker() && jokers[0] == JokerInfinite {
		return nil, true, nil
	}

	var sb strings.Builder
	next := 0
	for _, c := range cards {
		eff := c.Rank
		if c.IsJoker() {
			eff = jokers[next]
			next++
			if eff == JokerInfinite {
				return nil, false, ErrInfiniteAssignment
			}
			if eff < 0 || eff > 13 {
				return nil, false, ErrJokerRange
			}
		}
		sb.WriteString(strconv.Itoa(eff))
	}

	digits := sb.String()
	if digits[0] == '0' {
		return nil, false, ErrLeadingZero
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, false, ErrLeadingZero
	}
	return n, false, nil
}
