package httpapi

import (
	"encoding/json"
	"net/http"

	"primeduel/internal/hub"
	"primeduel/pkg/types"
)

// ListRooms serves the room directory for lobby browsing.
func ListRooms(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []types.RoomInfo, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}
		rooms := <-reply

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Rooms []types.RoomInfo `json:"rooms"`
		}{Rooms: rooms})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
