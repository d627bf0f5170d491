package engine

import "errors"

// Validation errors: the action is rejected with no state change and
// may be retried freely.
var (
	ErrUnknownPlayer      = errors.New("player is not in this room")
	ErrRoomFull           = errors.New("room is full")
	ErrDuelNotActive      = errors.New("no duel in progress")
	ErrDuelActive         = errors.New("a duel is already in progress")
	ErrNeedTwoWaiting     = errors.New("exactly two waiting players are required")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrCardNotOwned       = errors.New("card not in hand")
	ErrEmptyPlay          = errors.New("a play needs at least one card")
	ErrWrongPlaySize      = errors.New("play size must match the field")
	ErrOrdering           = errors.New("number does not beat the field")
	ErrJokerCount         = errors.New("joker assignment count mismatch")
	ErrInfiniteAssignment = errors.New("infinite is only valid for a lone joker")
	ErrJokerRange         = errors.New("joker assignment must be between 0 and 13")
	ErrLeadingZero        = errors.New("number cannot start with zero")
	ErrAlreadyDrawn       = errors.New("already drew a card this turn")
	ErrBadStatus          = errors.New("unknown status")
)

// SyntaxError means a factorization proof does not parse. Nothing is
// committed; the sender may retry without cost.
type SyntaxError struct {
	Reason string
}

func (e *SyntaxError) Error() string { return "proof syntax: " + e.Reason }

// MathError means a proof parsed but violates the rules (non-prime
// base, exponent over the cap, value mismatch). Unlike a syntax error
// it is a committed play: the caller applies the penalty path.
type MathError struct {
	Reason string
}

func (e *MathError) Error() string { return "proof math: " + e.Reason }
