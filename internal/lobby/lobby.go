package lobby

import (
	"context"

	"go.uber.org/zap"

	"primeduel/internal/engine"
	"primeduel/pkg/types"
)

type Msg interface{ isLobbyMsg() }

// Join registers a connected session and its outbox.
type Join struct {
	PlayerID string
	Name     string
	Outbox   chan types.ServerMessage
}

func (Join) isLobbyMsg() {}

type Leave struct{ PlayerID string }

func (Leave) isLobbyMsg() {}

// FromClient carries one decoded wire command from a session.
type FromClient struct {
	PlayerID string
	Msg      types.ClientMessage
}

func (FromClient) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

// GetState reflects room state without data races; used by the hub for
// the room directory and by tests.
type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type View struct {
	RoomID     string
	Label      string
	NumClients int
	Players    int
	Waiting    int
	State      engine.DuelState
}

// Lobby is the single-writer actor for one room: every validate-mutate-
// emit sequence runs on its loop goroutine, so room state is never
// touched concurrently. Separate rooms run fully in parallel.
type Lobby struct {
	inbox   chan Msg
	room    *engine.Room
	clients map[string]chan types.ServerMessage
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLobby(parent context.Context, room *engine.Room, log *zap.Logger) *Lobby {
	ctx, cancel := context.WithCancel(parent)
	l := &Lobby{
		inbox:   make(chan Msg, 64),
		room:    room,
		clients: make(map[string]chan types.ServerMessage),
		log:     log.With(zap.String("room", room.ID())),
		ctx:     ctx,
		cancel:  cancel,
	}
	go l.loop()
	return l
}

func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				l.handleJoin(msg)

			case Leave:
				l.handleLeave(msg.PlayerID)

			case FromClient:
				l.handleCommand(msg.PlayerID, msg.Msg)

			case GetState:
				msg.Reply <- View{
					RoomID:     l.room.ID(),
					Label:      l.room.Preset().Label,
					NumClients: len(l.clients),
					Players:    l.room.PlayerCount(),
					Waiting:    l.room.WaitingCount(),
					State:      l.room.State(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) handleJoin(msg Join) {
	events, err := l.room.Join(engine.NewPlayer(msg.PlayerID, msg.Name))
	if err != nil {
		// Never block the room loop on a joiner's outbox.
		select {
		case msg.Outbox <- errorMessage(err):
		default:
		}
		close(msg.Outbox)
		return
	}
	l.clients[msg.PlayerID] = msg.Outbox
	l.sendTo(msg.PlayerID, types.ServerMessage{Type: "your_id", PlayerID: msg.PlayerID})
	l.dispatch(events)
	l.log.Info("player joined", zap.String("player", msg.PlayerID), zap.String("name", msg.Name))
}

func (l *Lobby) handleLeave(playerID string) {
	if ch, ok := l.clients[playerID]; ok {
		delete(l.clients, playerID)
		close(ch)
	}
	events, err := l.room.Leave(playerID)
	if err != nil {
		return // already detached
	}
	l.dispatch(events)
	l.log.Info("player left", zap.String("player", playerID))
}

// handleCommand maps one wire command onto the room state machine.
// Validation and proof-syntax failures go back to the sender alone;
// everything else dispatches the room's events.
func (l *Lobby) handleCommand(playerID string, msg types.ClientMessage) {
	var (
		events []engine.Event
		err    error
	)
	switch msg.Type {
	case "set_status":
		events, err = l.room.SetStatus(playerID, engine.Status(msg.Status))
	case "start_game":
		events, err = l.room.StartGame(playerID)
	case "play_prime":
		events, err = l.room.PlayPrime(playerID, msg.Cards, msg.Jokers)
	case "play_composite":
		tokens := make([]engine.TokenRef, len(msg.Tokens))
		for i, t := range msg.Tokens {
			tokens[i] = engine.TokenRef{CardID: t.Card, Op: engine.Operator(t.Op)}
		}
		events, err = l.room.PlayComposite(playerID, msg.Selected, msg.SelectedJokers, msg.Consume, tokens, msg.ProofJokers)
	case "draw":
		events, err = l.room.Draw(playerID)
	case "pass":
		events, err = l.room.Pass(playerID)
	case "chat":
		l.broadcast(types.ServerMessage{Type: "chat", Sender: playerID, Message: msg.Message})
		return
	default:
		l.sendTo(playerID, types.ServerMessage{Type: "error", ErrorKind: "validation", Error: "unknown command"})
		return
	}

	if err != nil {
		l.sendTo(playerID, errorMessage(err))
		l.log.Debug("command rejected",
			zap.String("player", playerID),
			zap.String("command", msg.Type),
			zap.Error(err))
		return
	}
	l.dispatch(events)
}

// dispatch routes engine events: targeted events reach one player, the
// rest broadcast.
func (l *Lobby) dispatch(events []engine.Event) {
	for _, ev := range events {
		wire := toWire(ev)
		if target := ev.Target(); target != "" {
			l.sendTo(target, wire)
			continue
		}
		l.broadcast(wire)
	}
}

func (l *Lobby) sendTo(playerID string, msg types.ServerMessage) {
	ch, ok := l.clients[playerID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		l.drop(playerID, ch)
	}
}

func (l *Lobby) broadcast(msg types.ServerMessage) {
	for id, ch := range l.clients {
		select {
		case ch <- msg:
		default:
			// Slow or full client: drop it.
			l.drop(id, ch)
		}
	}
}

func (l *Lobby) drop(playerID string, ch chan types.ServerMessage) {
	close(ch)
	delete(l.clients, playerID)
	if events, err := l.room.Leave(playerID); err == nil {
		l.dispatch(events)
	}
	l.log.Warn("dropped slow client", zap.String("player", playerID))
}

func (l *Lobby) shutdown() {
	for id, ch := range l.clients {
		close(ch)
		delete(l.clients, id)
	}
	l.cancel()
}
