// internal/httpserver/routes_rooms.go
//
// Live game room endpoints: create a room with a fresh random board,
// list open rooms, and upgrade to the websocket that joins one.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/alexrobincrabbe/boojum-server/internal/hub"
	"github.com/alexrobincrabbe/boojum-server/internal/room"
	"github.com/alexrobincrabbe/boojum-server/internal/ws"
)

type createRoomReq struct {
	// OneShot rooms end after every joined player submits one word.
	OneShot bool `json:"oneShot"`
	// Size of the letter board; 4 or 5, defaulting to 4.
	Size int `json:"size"`
}

type roomInfo struct {
	Code       string `json:"code"`
	NumClients int    `json:"numClients"`
	OneShot    bool   `json:"oneShot"`
	Over       bool   `json:"over"`
}

func (s *Server) mountRooms(r chi.Router) {
	r.Post("/rooms", s.handleCreateRoom)
	r.Get("/rooms", s.handleListRooms)
	r.Get("/ws", ws.Handler(s.hub))
}

// handleCreateRoom builds a random board and registers a room under a
// fresh join code. Code collisions are retried.
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var body createRoomReq
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	size := body.Size
	if size == 0 {
		size = 4
	}
	if size != 4 && size != 5 {
		http.Error(w, `{"error":"size must be 4 or 5"}`, http.StatusBadRequest)
		return
	}

	s.rngMu.Lock()
	b := room.NewRandomBoard(size, s.rng)
	s.rngMu.Unlock()
	state := room.NewState(b, body.OneShot)

	// Find an unused code; live room counts stay tiny so a few
	// attempts always suffice.
	var code string
	for i := 0; i < 10; i++ {
		c, err := generateCode()
		if err != nil {
			http.Error(w, `{"error":"could not create room"}`, http.StatusInternalServerError)
			return
		}
		reply := make(chan *room.Room, 1)
		s.hub.Inbox() <- hub.GetRoom{Code: c, Reply: reply}
		if <-reply == nil {
			code = c
			break
		}
	}
	if code == "" {
		http.Error(w, `{"error":"could not allocate room code"}`, http.StatusInternalServerError)
		return
	}

	reply := make(chan *room.Room, 1)
	s.hub.Inbox() <- hub.CreateRoom{Code: code, State: state, Reply: reply}
	<-reply

	log.Info().Str("code", code).Bool("oneShot", body.OneShot).Int("size", size).Msg("room created")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"oneShot": body.OneShot,
		"size":    size,
	})
}

// handleListRooms reports every live room with its connection count.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	codesReply := make(chan []string, 1)
	s.hub.Inbox() <- hub.ListRooms{Reply: codesReply}
	codes := <-codesReply

	rooms := make([]roomInfo, 0, len(codes))
	for _, code := range codes {
		roomReply := make(chan *room.Room, 1)
		s.hub.Inbox() <- hub.GetRoom{Code: code, Reply: roomReply}
		rm := <-roomReply
		if rm == nil {
			continue
		}
		viewReply := make(chan room.View, 1)
		rm.Inbox() <- room.GetView{Reply: viewReply}
		v := <-viewReply
		rooms = append(rooms, roomInfo{
			Code:       code,
			NumClients: v.NumClients,
			OneShot:    v.State.OneShot,
			Over:       v.State.Over,
		})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"rooms": rooms})
}
