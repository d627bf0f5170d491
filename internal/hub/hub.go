package hub

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"primeduel/internal/config"
	"primeduel/internal/engine"
	"primeduel/internal/lobby"
	"primeduel/pkg/types"
)

type HubMsg interface{ isHubMsg() }

type GetRoom struct {
	ID    string
	Reply chan *lobby.Lobby
}

// ListRooms answers the lobby-browsing directory.
type ListRooms struct {
	Reply chan []types.RoomInfo
}

type ShutdownHub struct{}

func (GetRoom) isHubMsg()     {}
func (ListRooms) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

// Hub owns the room set. Rooms are created once, at startup, one per
// rule preset, and live for the whole process.
type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	order   []string
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewHub(parent context.Context, cfg config.Config, presets []engine.RulePreset, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		lobbies: make(map[string]*lobby.Lobby),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, preset := range presets {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		oracle := engine.NewOracle(cfg.MillerRabinRounds, rng)
		room := engine.NewRoom(preset.Key, preset, cfg.RoomCap, oracle, uuid.NewString, rng)
		h.lobbies[preset.Key] = lobby.NewLobby(ctx, room, log)
		h.order = append(h.order, preset.Key)
		log.Info("room ready", zap.String("room", preset.Key), zap.String("rule", preset.Label))
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case GetRoom:
				msg.Reply <- h.lobbies[msg.ID] // may be nil

			case ListRooms:
				msg.Reply <- h.directory()

			case ShutdownHub:
				for _, lb := range h.lobbies {
					lb.Inbox() <- lobby.Shutdown{}
				}
				clear(h.lobbies)
				h.cancel()
			}
		}
	}
}

// directory queries every room actor for its current counts. Room
// loops never block on the hub, so the round trip is deadlock-free.
func (h *Hub) directory() []types.RoomInfo {
	out := make([]types.RoomInfo, 0, len(h.order))
	for _, id := range h.order {
		reply := make(chan lobby.View, 1)
		h.lobbies[id].Inbox() <- lobby.GetState{Reply: reply}
		v := <-reply
		out = append(out, types.RoomInfo{
			ID:      v.RoomID,
			Label:   v.Label,
			Players: v.Players,
			Waiting: v.Waiting,
			State:   string(v.State),
		})
	}
	return out
}
