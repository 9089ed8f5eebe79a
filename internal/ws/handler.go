// internal/ws/handler.go
//
// WebSocket bridge between room connections and the room actor.
// One reader loop per connection feeds commands into the room inbox;
// a writer goroutine forwards versioned snapshots back out.

package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/alexrobincrabbe/boojum-server/internal/hub"
	"github.com/alexrobincrabbe/boojum-server/internal/room"
)

// ClientMessage is what room clients send over the socket.
type ClientMessage struct {
	Type string `json:"type"`
	Word string `json:"word,omitempty"`
}

// ServerMessage wraps a room snapshot for the wire.
type ServerMessage struct {
	Type    string      `json:"type"`
	Version int         `json:"version"`
	State   *room.State `json:"state,omitempty"`
	Events  []room.Event `json:"events,omitempty"`
}

func Handler(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "guest"
		}

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan room.Snapshot, 8)
		playerID := randID(6)

		rm.Inbox() <- room.Join{PlayerID: playerID, Name: name, Outbox: out}
		defer func() { rm.Inbox() <- room.Leave{PlayerID: playerID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State, Events: snap.Events}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			cmd, ok := toCommand(cm, playerID)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}

			errs := make(chan error, 1)
			rm.Inbox() <- room.FromClient{Cmd: cmd, Errs: errs}
			if ruleErr := <-errs; ruleErr != nil {
				payload, _ := json.Marshal(map[string]string{"type": "Error", "error": ruleErr.Error()})
				_ = conn.Write(r.Context(), websocket.MessageText, payload)
			}
		}
	}
}

func toCommand(m ClientMessage, playerID string) (room.Command, bool) {
	switch m.Type {
	case "SubmitWord":
		return room.Command{Type: room.CmdSubmitWord, PlayerID: playerID, Word: m.Word}, true
	case "EndGame":
		return room.Command{Type: room.CmdEndGame, PlayerID: playerID}, true
	default:
		return room.Command{}, false
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
