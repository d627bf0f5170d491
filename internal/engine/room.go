package engine

import (
	"math/big"
	"math/rand"
	"sort"
)

type DuelState string

const (
	DuelIdle   DuelState = "idle"
	DuelActive DuelState = "active"
)

// Status is a named enum on purpose: "waiting" means queued for duel
// selection, not merely connected. "watching" covers both spectators
// and connected-but-idle players.
type Status string

const (
	StatusWatching Status = "watching"
	StatusWaiting  Status = "waiting"
)

type Player struct {
	ID     string
	Name   string
	Status Status
	hand   []Card
}

func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name, Status: StatusWatching}
}

// HandSize reports the number of cards the player holds.
func (p *Player) HandSize() int { return len(p.hand) }

// Hand returns a copy, rank-sorted for display.
func (p *Player) Hand() []Card {
	out := make([]Card, len(p.hand))
	copy(out, p.hand)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Suit < out[j].Suit
	})
	return out
}

// Room owns all per-duel mutable state. Mutations happen only through
// the action methods below; callers are expected to serialize them
// (one actor goroutine per room).
//
// The field is the display view of the most recent play: its cards are
// also members of the reserve, so a flush moves the reserve alone back
// to the deck.
type Room struct {
	id      string
	preset  RulePreset
	cap     int
	players []*Player

	state      DuelState
	deck       []Card
	field      []Card
	reserve    []Card
	discards   []Card
	lastNumber *big.Int
	turn       string
	hasDrawn   bool
	reverse    bool

	oracle *Oracle
	rng    *rand.Rand
	newID  cardIDFunc
}

func NewRoom(id string, preset RulePreset, cap int, oracle *Oracle, newID cardIDFunc, rng *rand.Rand) *Room {
	return &Room{
		id:     id,
		preset: preset,
		cap:    cap,
		state:  DuelIdle,
		oracle: oracle,
		newID:  newID,
		rng:    rng,
	}
}

func (r *Room) ID() string         { return r.id }
func (r *Room) Preset() RulePreset { return r.preset }
func (r *Room) State() DuelState   { return r.state }
func (r *Room) Turn() string       { return r.turn }
func (r *Room) PlayerCount() int   { return len(r.players) }
func (r *Room) DeckCount() int     { return len(r.deck) }

func (r *Room) WaitingCount() int { return len(r.eligible()) }

func (r *Room) Player(id string) (*Player, bool) {
	p := r.playerByID(id)
	return p, p != nil
}

// Join registers a connected player as a watcher.
func (r *Room) Join(p *Player) ([]Event, error) {
	if len(r.players) >= r.cap {
		return nil, ErrRoomFull
	}
	p.Status = StatusWatching
	r.players = append(r.players, p)
	return []Event{r.roomStatus(), r.gameUpdate()}, nil
}

// SetStatus moves a player between watching and the duel queue.
func (r *Room) SetStatus(playerID string, s Status) ([]Event, error) {
	p := r.playerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if s != StatusWatching && s != StatusWaiting {
		return nil, ErrBadStatus
	}
	p.Status = s
	return []Event{r.roomStatus()}, nil
}

// StartGame begins a duel between the two waiting players.
func (r *Room) StartGame(playerID string) ([]Event, error) {
	if r.playerByID(playerID) == nil {
		return nil, ErrUnknownPlayer
	}
	if r.state == DuelActive {
		return nil, ErrDuelActive
	}
	duelists := r.eligible()
	if len(duelists) != 2 {
		return nil, ErrNeedTwoWaiting
	}

	deck := NewDeck(r.preset.DeckVariant, r.newID, r.rng)
	hands, rest := DealHands(deck, r.preset.HandSize, len(duelists), r.rng)
	for i, d := range duelists {
		d.hand = hands[i]
	}
	r.deck = rest
	r.field = nil
	r.reserve = nil
	r.discards = nil
	r.lastNumber = nil
	r.reverse = false
	r.hasDrawn = false
	r.turn = duelists[r.rng.Intn(len(duelists))].ID
	r.state = DuelActive

	events := []Event{GameStartEvent{}}
	for _, d := range duelists {
		events = append(events, DealEvent{PlayerID: d.ID, Hand: d.Hand()})
	}
	events = append(events, r.gameUpdate(), NextTurnEvent{CurrentTurn: r.turn})
	return events, nil
}

// PlayPrime handles prime-mode plays, including the lone-joker flush
// and the two magic numbers.
func (r *Room) PlayPrime(playerID string, cardIDs []string, jokers []int) ([]Event, error) {
	p, cards, err := r.playable(playerID, cardIDs)
	if err != nil {
		return nil, err
	}
	n, flush, err := BuildNumber(cards, jokers)
	if err != nil {
		return nil, err
	}

	if flush {
		r.removeFromHand(p, cardIDs)
		r.reserve = append(r.reserve, cards...)
		r.flushToDeck()
		events := []Event{
			ActionResultEvent{Action: "flush", PlayerID: p.ID, Played: cards, Mode: "prime"},
			HandUpdateEvent{PlayerID: p.ID, Hand: p.Hand()},
			r.gameUpdate(),
		}
		return append(events, r.winCheckEvents()...), nil
	}

	if err := r.checkField(len(cards), n); err != nil {
		return nil, err
	}

	switch {
	case n.Cmp(big.NewInt(57)) == 0:
		// Cut: flush the streak, same player keeps the turn.
		r.removeFromHand(p, cardIDs)
		r.reserve = append(r.reserve, cards...)
		r.flushToDeck()
		events := []Event{
			ActionResultEvent{Action: "cut", PlayerID: p.ID, Played: cards, Number: "57", Mode: "prime"},
			HandUpdateEvent{PlayerID: p.ID, Hand: p.Hand()},
			r.gameUpdate(),
		}
		return append(events, r.winCheckEvents()...), nil

	case n.Cmp(big.NewInt(1729)) == 0:
		// Revolution: flip the ordering requirement.
		r.removeFromHand(p, cardIDs)
		r.reverse = !r.reverse
		r.reserve = append(r.reserve, cards...)
		r.field = cards
		r.lastNumber = n
		events := []Event{
			ActionResultEvent{Action: "revolution", PlayerID: p.ID, Played: cards, Number: "1729", Mode: "prime"},
			HandUpdateEvent{PlayerID: p.ID, Hand: p.Hand()},
			r.gameUpdate(),
		}
		return append(events, r.advanceTurn()...), nil

	case !r.oracle.IsPrime(n):
		return r.commitPenalty(p, cardIDs, cards, len(cards), n), nil

	default:
		r.removeFromHand(p, cardIDs)
		r.reserve = append(r.reserve, cards...)
		r.field = cards
		r.lastNumber = n
		events := []Event{
			ActionResultEvent{Action: "play", PlayerID: p.ID, Played: cards, Number: n.String(), Mode: "prime"},
			HandUpdateEvent{PlayerID: p.ID, Hand: p.Hand()},
			r.gameUpdate(),
		}
		return append(events, r.advanceTurn()...), nil
	}
}

// TokenRef is a wire-level proof token: a card id or an operator.
type TokenRef struct {
	CardID string
	Op     Operator
}

// PlayComposite handles composite-mode plays: the selected cards form
// the public number, the proof tokens must factor it into prime-power
// towers, and the consume cards are spent alongside. Proof syntax
// errors leave the room untouched; math errors commit the penalty
// path.
func (r *Room) PlayComposite(playerID string, selectedIDs []string, selectedJokers []int, consumeIDs []string, tokens []TokenRef, proofJokers []int) ([]Event, error) {
	unionIDs := unionOrdered(selectedIDs, consumeIDs)
	p, unionCards, err := r.playable(playerID, unionIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Card, len(unionCards))
	for _, c := range unionCards {
		byID[c.ID] = c
	}
	selected := make([]Card, len(selectedIDs))
	for i, id := range selectedIDs {
		selected[i] = byID[id]
	}

	n, flush, err := BuildNumber(selected, selectedJokers)
	if err != nil {
		return nil, err
	}
	if flush {
		return nil, ErrInfiniteAssignment
	}
	if err := r.checkField(len(selected), n); err != nil {
		return nil, err
	}

	proof := make([]ProofToken, len(tokens))
	for i, t := range tokens {
		if t.CardID != "" {
			c, ok := byID[t.CardID]
			if !ok {
				return nil, ErrCardNotOwned
			}
			proof[i] = ProofToken{Card: &c}
			continue
		}
		proof[i] = ProofToken{Op: t.Op}
	}

	switch err := r.oracle.EvaluateProof(proof, proofJokers, n).(type) {
	case nil:
	case *MathError:
		return r.commitPenalty(p, unionIDs, unionCards, len(selected), n), nil
	default:
		return nil, err
	}

	r.removeFromHand(p, unionIDs)
	inSelected := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		inSelected[id] = true
	}
	// Consumed-only cards skip the reserve and go straight to the deck.
	for _, c := range unionCards {
		if !inSelected[c.ID] {
			r.deck = append(r.deck, c)
		}
	}
	r.reserve = append(r.reserve, selected...)
	r.field = selected
	r.lastNumber = n

	events := []Event{
		ActionResultEvent{Action: "play", PlayerID: p.ID, Played: selected, Number: n.String(), Mode: "composite"},
		HandUpdateEvent{PlayerID: p.ID, Hand: p.Hand()},
		r.gameUpdate(),
	}
	return append(events, r.advanceTurn()...), nil
}

// Draw moves one card from the deck front into the turn holder's hand.
// At most once per turn; the turn does not advance.
func (r *Room) Draw(playerID string) ([]Event, error) {
	p := r.playerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if r.state != DuelActive {
		return nil, ErrDuelNotActive
	}
	if r.turn != playerID {
		return nil, ErrNotYourTurn
	}
	if r.hasDrawn {
		return nil, ErrAlreadyDrawn
	}
	r.hasDrawn = true
	if len(r.deck) > 0 {
		p.hand = append(p.hand, r.deck[0])
		r.deck = r.deck[1:]
	}
	return []Event{
		HandUpdateEvent{PlayerID: p.ID, Hand: p.Hand()},
		r.gameUpdate(),
	}, nil
}

// Pass gives up the streak: field and reserve flush back to the deck
// and the turn advances.
func (r *Room) Pass(playerID string) ([]Event, error) {
	p := r.playerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if r.state != DuelActive {
		return nil, ErrDuelNotActive
	}
	if r.turn != playerID {
		return nil, ErrNotYourTurn
	}
	r.flushToDeck()
	events := []Event{
		ActionResultEvent{Action: "pass", PlayerID: p.ID, Mode: "prime"},
		r.gameUpdate(),
	}
	return append(events, r.advanceTurn()...), nil
}

// Leave detaches a player. Their cards return to the deck back so no
// card is lost. If a duel drops to a single duelist, that duelist wins
// on the spot regardless of hand size.
func (r *Room) Leave(playerID string) ([]Event, error) {
	p := r.playerByID(playerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	for i, q := range r.players {
		if q.ID == playerID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	r.deck = append(r.deck, p.hand...)
	p.hand = nil

	events := []Event{r.roomStatus()}
	if r.state == DuelActive {
		remaining := r.eligible()
		switch {
		case len(r.players) == 0:
			r.endDuel()
		case len(remaining) == 1:
			winner := remaining[0].ID
			r.endDuel()
			events = append(events, GameOverEvent{Winner: winner}, r.gameUpdate())
		case r.turn == playerID:
			events = append(events, r.advanceTurn()...)
			events = append(events, r.gameUpdate())
		}
	}
	return events, nil
}

// --- internals ---

func (r *Room) playerByID(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// eligible lists duel participants in current membership order. The
// order is recomputed from live membership on every advance, so a
// join or leave mid-duel can reorder turns.
func (r *Room) eligible() []*Player {
	var out []*Player
	for _, p := range r.players {
		if p.Status == StatusWaiting {
			out = append(out, p)
		}
	}
	return out
}

// playable runs the common validation for both play modes and resolves
// the ordered cards without removing them from the hand.
func (r *Room) playable(playerID string, cardIDs []string) (*Player, []Card, error) {
	p := r.playerByID(playerID)
	if p == nil {
		return nil, nil, ErrUnknownPlayer
	}
	if r.state != DuelActive {
		return nil, nil, ErrDuelNotActive
	}
	if r.turn != playerID {
		return nil, nil, ErrNotYourTurn
	}
	if len(cardIDs) == 0 {
		return nil, nil, ErrEmptyPlay
	}
	owned := make(map[string]Card, len(p.hand))
	for _, c := range p.hand {
		owned[c.ID] = c
	}
	cards := make([]Card, len(cardIDs))
	seen := make(map[string]bool, len(cardIDs))
	for i, id := range cardIDs {
		c, ok := owned[id]
		if !ok || seen[id] {
			return nil, nil, ErrCardNotOwned
		}
		seen[id] = true
		cards[i] = c
	}
	return p, cards, nil
}

// checkField enforces size and ordering against the current field.
func (r *Room) checkField(played int, n *big.Int) error {
	if len(r.field) == 0 {
		return nil
	}
	if played != len(r.field) {
		return ErrWrongPlaySize
	}
	cmp := n.Cmp(r.lastNumber)
	if r.reverse {
		cmp = -cmp
	}
	if cmp <= 0 {
		return ErrOrdering
	}
	return nil
}

func (r *Room) removeFromHand(p *Player, ids []string) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := p.hand[:0]
	for _, c := range p.hand {
		if !drop[c.ID] {
			kept = append(kept, c)
		}
	}
	p.hand = kept
}

// flushToDeck returns the streak to the deck back. The field holds the
// same cards as the reserve tail, so only the reserve moves.
func (r *Room) flushToDeck() {
	r.deck = append(r.deck, r.reserve...)
	r.reserve = nil
	r.field = nil
	r.lastNumber = nil
}

// commitPenalty is the shared path for non-prime plays and proof math
// errors: the played cards are discarded outright, the offender draws
// per policy, the streak flushes and the turn advances.
func (r *Room) commitPenalty(p *Player, ids []string, cards []Card, playedCount int, n *big.Int) []Event {
	r.removeFromHand(p, ids)
	r.discards = append(r.discards, cards...)

	draws := 1
	if r.preset.Penalty == PenaltySameAsPlayed {
		draws = playedCount
	}
	drawn := 0
	for i := 0; i < draws && len(r.deck) > 0; i++ {
		p.hand = append(p.hand, r.deck[0])
		r.deck = r.deck[1:]
		drawn++
	}
	r.flushToDeck()

	events := []Event{
		PenaltyEvent{PlayerID: p.ID, Played: cards, Number: n.String(), Drawn: drawn},
		HandUpdateEvent{PlayerID: p.ID, Hand: p.Hand()},
		r.gameUpdate(),
	}
	return append(events, r.advanceTurn()...)
}

// advanceTurn resets the per-turn draw gate, suspends the duel when
// fewer than two duelists remain, ends it when someone has won, and
// otherwise rotates the turn cyclically through the eligible list.
func (r *Room) advanceTurn() []Event {
	r.hasDrawn = false
	elig := r.eligible()
	if len(elig) < 2 {
		return nil
	}
	if evts := r.winCheckEvents(); evts != nil {
		return evts
	}
	idx := -1
	for i, p := range elig {
		if p.ID == r.turn {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.turn = elig[0].ID
	} else {
		r.turn = elig[(idx+1)%len(elig)].ID
	}
	return []Event{NextTurnEvent{CurrentTurn: r.turn}}
}

// winCheckEvents applies the win condition: a room reduced to a single
// player wins outright, before any hand-emptiness check on the turn
// holder.
func (r *Room) winCheckEvents() []Event {
	if r.state != DuelActive {
		return nil
	}
	var winner string
	if len(r.players) == 1 {
		winner = r.players[0].ID
	} else if holder := r.playerByID(r.turn); holder != nil && len(holder.hand) == 0 {
		winner = holder.ID
	}
	if winner == "" {
		return nil
	}
	r.endDuel()
	return []Event{GameOverEvent{Winner: winner}, r.gameUpdate()}
}

// endDuel returns the room to idle. Hands are collected so no card
// from this build leaks into the next duel's deck.
func (r *Room) endDuel() {
	r.state = DuelIdle
	r.turn = ""
	for _, p := range r.players {
		p.hand = nil
	}
}

func (r *Room) roomStatus() Event {
	infos := make([]PlayerInfo, 0, len(r.players))
	for _, p := range r.players {
		infos = append(infos, PlayerInfo{ID: p.ID, Name: p.Name, Status: p.Status})
	}
	return RoomStatusEvent{
		Rule:         r.preset.Label,
		Players:      infos,
		WaitingCount: len(r.eligible()),
	}
}

func (r *Room) gameUpdate() Event {
	counts := make(map[string]int, len(r.players))
	for _, p := range r.players {
		counts[p.ID] = len(p.hand)
	}
	field := make([]Card, len(r.field))
	copy(field, r.field)
	return GameUpdateEvent{
		State:        r.state,
		CurrentTurn:  r.turn,
		ReverseOrder: r.reverse,
		DeckCount:    len(r.deck),
		Field:        field,
		HandCounts:   counts,
	}
}

func unionOrdered(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, id := range append(append([]string{}, a...), b...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

