package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"primeduel/internal/hub"
	"primeduel/internal/lobby"
	"primeduel/pkg/types"
)

// Handler upgrades a session and binds it to one room for its whole
// lifetime. The deferred Leave is the disconnect path: it reaches the
// room actor as a single atomic action.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		if roomID == "" {
			http.Error(w, "missing room", http.StatusBadRequest)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "player"
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.GetRoom{ID: roomID, Reply: reply}
		lb := <-reply
		if lb == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		playerID := uuid.NewString()
		out := make(chan types.ServerMessage, 16)
		log.Info("session open", zap.String("room", roomID), zap.String("player", playerID))
		defer log.Info("session closed", zap.String("room", roomID), zap.String("player", playerID))

		lb.Inbox() <- lobby.Join{PlayerID: playerID, Name: name, Outbox: out}
		defer func() { lb.Inbox() <- lobby.Leave{PlayerID: playerID} }()

		// Writer goroutine drains the outbox until the lobby closes it.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","error_kind":"validation","error":"bad json"}`))
				continue
			}

			switch cm.Type {
			case "leave":
				return
			case "room_list":
				// Directory browsing is a hub concern, not a room one.
				// Reply straight on the connection: the lobby owns the
				// outbox and may have closed it already.
				reply := make(chan []types.RoomInfo, 1)
				h.Inbox() <- hub.ListRooms{Reply: reply}
				payload, err := json.Marshal(types.ServerMessage{Type: "room_list", Rooms: <-reply})
				if err == nil {
					_ = conn.Write(r.Context(), websocket.MessageText, payload)
				}
			default:
				lb.Inbox() <- lobby.FromClient{PlayerID: playerID, Msg: cm}
			}
		}
	}
}
