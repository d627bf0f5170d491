package engine

import (
	"fmt"
	"math/big"
)

type Operator string

const (
	OpMultiply Operator = "*"
	OpPower    Operator = "^"
)

// ProofToken is one element of a factorization proof: either a card or
// an operator, never both.
type ProofToken struct {
	Card *Card
	Op   Operator
}

// Every individual exponent and every folded intermediate exponent must
// stay at or below this cap.
const exponentCap = 12

// factorChunk is one multiplicand of the proof: base^e1^e2^...
// groups[0] is the base, the rest are exponents.
type factorChunk struct {
	groups [][]Card
}

// parseProof splits the token stream on '*' into chunks, then each
// chunk on '^' into groups of consecutive cards. Shape violations are
// syntax errors; nothing about values is checked here.
func parseProof(tokens []ProofToken) ([]factorChunk, error) {
	if len(tokens) == 0 {
		return nil, &SyntaxError{Reason: "empty proof"}
	}
	if tokens[0].Card == nil || tokens[len(tokens)-1].Card == nil {
		return nil, &SyntaxError{Reason: "proof must start and end with a card"}
	}

	var chunks []factorChunk
	cur := factorChunk{groups: [][]Card{nil}}
	prevOp := false
	for _, tok := range tokens {
		switch {
		case tok.Card != nil:
			gi := len(cur.groups) - 1
			cur.groups[gi] = append(cur.groups[gi], *tok.Card)
			prevOp = false
		case tok.Op == OpPower:
			if prevOp {
				return nil, &SyntaxError{Reason: "adjacent operators"}
			}
			cur.groups = append(cur.groups, nil)
			prevOp = true
		case tok.Op == OpMultiply:
			if prevOp {
				return nil, &SyntaxError{Reason: "adjacent operators"}
			}
			chunks = append(chunks, cur)
			cur = factorChunk{groups: [][]Card{nil}}
			prevOp = true
		default:
			return nil, &SyntaxError{Reason: fmt.Sprintf("unknown operator %q", tok.Op)}
		}
	}
	chunks = append(chunks, cur)
	return chunks, nil
}

// EvaluateProof checks a factorization proof against want, the value of
// the selected play. Joker assignments are consumed left to right
// across the card tokens of the whole stream; JokerInfinite is never
// valid here. The error is a *SyntaxError, a *MathError, or a
// validation error for malformed joker assignments.
func (o *Oracle) EvaluateProof(tokens []ProofToken, jokers []int, want *big.Int) error {
	jokerCount := 0
	for _, tok := range tokens {
		if tok.Card != nil && tok.Card.IsJoker() {
			jokerCount++
		}
	}
	if len(jokers) != jokerCount {
		return ErrJokerCount
	}

	chunks, err := parseProof(tokens)
	if err != nil {
		return err
	}

	// Hand out assignments group by group, in stream order.
	next := 0
	groupValue := func(group []Card) (*big.Int, error) {
		var gj []int
		for _, c := range group {
			if c.IsJoker() {
				gj = append(gj, jokers[next])
				next++
			}
		}
		v, flush, err := BuildNumber(group, gj)
		if err == ErrInfiniteAssignment || err == ErrJokerRange {
			return nil, err
		}
		if flush {
			return nil, ErrInfiniteAssignment
		}
		if err != nil {
			return nil, &SyntaxError{Reason: "bad digit group"}
		}
		return v, nil
	}

	product := big.NewInt(1)
	for _, chunk := range chunks {
		base, err := groupValue(chunk.groups[0])
		if err != nil {
			return err
		}
		exps := make([]int64, 0, len(chunk.groups)-1)
		for _, g := range chunk.groups[1:] {
			v, err := groupValue(g)
			if err != nil {
				return err
			}
			if v.Cmp(big.NewInt(exponentCap)) > 0 {
				return &MathError{Reason: "exponent over cap"}
			}
			exps = append(exps, v.Int64())
		}

		if base.Cmp(bigTwo) < 0 || !o.IsPrime(base) {
			return &MathError{Reason: "base is not prime"}
		}

		// Fold exponents right to left: e1^(e2^(...^ek)).
		fold := int64(1)
		if len(exps) > 0 {
			fold = exps[len(exps)-1]
			for i := len(exps) - 2; i >= 0; i-- {
				fold = powInt64(exps[i], fold)
				if fold > exponentCap {
					return &MathError{Reason: "exponent over cap"}
				}
			}
		}
		product.Mul(product, new(big.Int).Exp(base, big.NewInt(fold), nil))
	}

	if product.Cmp(want) != 0 {
		return &MathError{Reason: "product does not match the played number"}
	}
	return nil
}

func powInt64(base, exp int64) int64 {
	r := int64(1)
	for i := int64(0); i < exp; i++ {
		r *= base
		if r > exponentCap {
			return r
		}
	}
	return r
}
