package lobby

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"

	"primeduel/internal/engine"
	"primeduel/pkg/types"
)

// helper: receive one message with a timeout so tests never hang
func recvMsg(t *testing.T, ch <-chan types.ServerMessage, within time.Duration) types.ServerMessage {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatalf("client outbox closed unexpectedly")
		}
		return msg
	case <-time.After(within):
		t.Fatalf("timed out waiting for message")
		return types.ServerMessage{} // unreachable
	}
}

// recvType drains until a message of the wanted type arrives.
func recvType(t *testing.T, ch <-chan types.ServerMessage, want string, within time.Duration) types.ServerMessage {
	t.Helper()
	deadline := time.After(within)
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				t.Fatalf("outbox closed while waiting for %q", want)
			}
			if msg.Type == want {
				return msg
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
			return types.ServerMessage{} // unreachable
		}
	}
}

func recvView(t *testing.T, ch <-chan View, within time.Duration) View {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(within):
		t.Fatalf("timed out waiting for view")
		return View{} // unreachable
	}
}

func testLobby(t *testing.T) *Lobby {
	t.Helper()
	rng := rand.New(rand.NewSource(17))
	ids := 0
	newID := func() string {
		ids++
		return fmt.Sprintf("c%d", ids)
	}
	preset := engine.RulePreset{
		Key: "std-5-1", Label: "Standard: 5 cards / penalty 1",
		DeckVariant: engine.DeckStandard, HandSize: 5, Penalty: engine.PenaltyAlwaysOne,
	}
	room := engine.NewRoom("std-5-1", preset, 10, engine.NewOracle(16, rng), newID, rng)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewLobby(ctx, room, zap.NewNop())
}

func TestLobby_JoinSendsIDAndRoomStatus(t *testing.T) {
	l := testLobby(t)

	out := make(chan types.ServerMessage, 8)
	l.Inbox() <- Join{PlayerID: "p1", Name: "Alice", Outbox: out}

	first := recvMsg(t, out, 100*time.Millisecond)
	if first.Type != "your_id" || first.PlayerID != "p1" {
		t.Fatalf("want your_id for p1, got %+v", first)
	}

	status := recvType(t, out, "room_status", 100*time.Millisecond)
	if len(status.Players) != 1 || status.Players[0].Status != "watching" {
		t.Fatalf("want one watching player, got %+v", status.Players)
	}
	if status.WaitingCount != 0 {
		t.Fatalf("want waiting_count=0, got %d", status.WaitingCount)
	}
}

func TestLobby_FullDuelStartFlow(t *testing.T) {
	l := testLobby(t)

	out1 := make(chan types.ServerMessage, 32)
	out2 := make(chan types.ServerMessage, 32)
	l.Inbox() <- Join{PlayerID: "p1", Name: "Alice", Outbox: out1}
	l.Inbox() <- Join{PlayerID: "p2", Name: "Bob", Outbox: out2}

	l.Inbox() <- FromClient{PlayerID: "p1", Msg: types.ClientMessage{Type: "set_status", Status: "waiting"}}
	l.Inbox() <- FromClient{PlayerID: "p2", Msg: types.ClientMessage{Type: "set_status", Status: "waiting"}}

	// Drain status updates until both duelists are queued.
	deadline := time.Now().Add(time.Second)
	for {
		status := recvType(t, out1, "room_status", 200*time.Millisecond)
		if status.WaitingCount == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("never saw waiting_count=2, last %d", status.WaitingCount)
		}
	}

	l.Inbox() <- FromClient{PlayerID: "p1", Msg: types.ClientMessage{Type: "start_game"}}

	recvType(t, out1, "game_start", 200*time.Millisecond)
	deal := recvType(t, out1, "deal", 200*time.Millisecond)
	if len(deal.Hand) != 5 {
		t.Fatalf("want 5 dealt cards, got %d", len(deal.Hand))
	}
	update := recvType(t, out1, "game_update", 200*time.Millisecond)
	if update.State != "active" || update.DeckCount != 44 {
		t.Fatalf("unexpected game_update: %+v", update)
	}
	next := recvType(t, out1, "next_turn", 200*time.Millisecond)
	if next.CurrentTurn != "p1" && next.CurrentTurn != "p2" {
		t.Fatalf("turn holder must be a duelist, got %q", next.CurrentTurn)
	}

	// The other session sees its own hand, never the opponent's.
	deal2 := recvType(t, out2, "deal", 200*time.Millisecond)
	if deal2.PlayerID != "p2" {
		t.Fatalf("p2 received a deal for %q", deal2.PlayerID)
	}
}

func TestLobby_ValidationErrorGoesToSenderOnly(t *testing.T) {
	l := testLobby(t)

	out1 := make(chan types.ServerMessage, 16)
	out2 := make(chan types.ServerMessage, 16)
	l.Inbox() <- Join{PlayerID: "p1", Name: "Alice", Outbox: out1}
	l.Inbox() <- Join{PlayerID: "p2", Name: "Bob", Outbox: out2}

	// No duel running: the play is rejected back to p1 alone.
	l.Inbox() <- FromClient{PlayerID: "p1", Msg: types.ClientMessage{Type: "play_prime", Cards: []string{"nope"}}}

	errMsg := recvType(t, out1, "error", 200*time.Millisecond)
	if errMsg.ErrorKind != "validation" {
		t.Fatalf("want validation kind, got %+v", errMsg)
	}

	reply := make(chan View, 1)
	l.Inbox() <- GetState{Reply: reply}
	v := recvView(t, reply, 100*time.Millisecond)
	if v.State != engine.DuelIdle || v.Players != 2 {
		t.Fatalf("room state must be untouched, got %+v", v)
	}
}

func TestLobby_ChatIsPureRelay(t *testing.T) {
	l := testLobby(t)

	out1 := make(chan types.ServerMessage, 16)
	out2 := make(chan types.ServerMessage, 16)
	l.Inbox() <- Join{PlayerID: "p1", Name: "Alice", Outbox: out1}
	l.Inbox() <- Join{PlayerID: "p2", Name: "Bob", Outbox: out2}

	l.Inbox() <- FromClient{PlayerID: "p1", Msg: types.ClientMessage{Type: "chat", Message: "gg"}}

	chat := recvType(t, out2, "chat", 200*time.Millisecond)
	if chat.Sender != "p1" || chat.Message != "gg" {
		t.Fatalf("unexpected chat relay: %+v", chat)
	}
}

func TestLobby_DropSlowClient(t *testing.T) {
	l := testLobby(t)

	// Buffer of one: your_id fills it, the join room_status overflows.
	out := make(chan types.ServerMessage, 1)
	l.Inbox() <- Join{PlayerID: "p1", Name: "Alice", Outbox: out}

	reply := make(chan View, 1)
	l.Inbox() <- GetState{Reply: reply}
	v := recvView(t, reply, 200*time.Millisecond)
	if v.NumClients != 0 {
		t.Fatalf("expected slow client to be dropped; NumClients=%d", v.NumClients)
	}
	if v.Players != 0 {
		t.Fatalf("dropped client must leave the room; Players=%d", v.Players)
	}
}

func TestLobby_JoinWithFullOutboxNeverBlocksActor(t *testing.T) {
	l := testLobby(t)

	// Unbuffered and never read: the join must not wedge the loop.
	out := make(chan types.ServerMessage)
	l.Inbox() <- Join{PlayerID: "p1", Name: "Alice", Outbox: out}

	reply := make(chan View, 1)
	l.Inbox() <- GetState{Reply: reply}
	v := recvView(t, reply, 200*time.Millisecond)
	if v.NumClients != 0 || v.Players != 0 {
		t.Fatalf("unreadable client must be dropped, got %+v", v)
	}
}

func TestLobby_RoomFullRejectsJoin(t *testing.T) {
	l := testLobby(t)

	for i := 0; i < 10; i++ {
		out := make(chan types.ServerMessage, 32)
		l.Inbox() <- Join{PlayerID: fmt.Sprintf("p%d", i), Name: "x", Outbox: out}
	}
	out := make(chan types.ServerMessage, 4)
	l.Inbox() <- Join{PlayerID: "p10", Name: "late", Outbox: out}

	msg := recvType(t, out, "error", 200*time.Millisecond)
	if msg.ErrorKind != "validation" {
		t.Fatalf("want validation error for a full room, got %+v", msg)
	}
}
