// internal/hub/hub.go
//
// Hub actor: owns the map of live rooms keyed by join code. Like the
// rooms themselves it runs as a single goroutine fed by an inbox, so
// the map needs no locking. A periodic sweep retires rooms whose game
// has completed so finished games do not accumulate for the life of
// the process.

package hub

import (
	"context"
	"time"

	"github.com/alexrobincrabbe/boojum-server/internal/room"
)

// sweepInterval is how often finished rooms are retired.
const sweepInterval = time.Minute

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Code  string
	State room.State
	Reply chan *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct {
	Code string
}

type ListRooms struct {
	Reply chan []string
}

// SweepRooms retires every room whose game is over. The internal ticker
// sends it periodically; tests send it directly.
type SweepRooms struct{}

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ListRooms) isHubMsg()   {}
func (SweepRooms) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	dict   room.Dictionary
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, dict room.Dictionary) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		dict:   dict,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case <-ticker.C:
			h.sweep()

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				if r := h.rooms[msg.Code]; r != nil {
					msg.Reply <- r
					break
				}
				r := room.NewRoom(h.ctx, msg.State, h.dict)
				h.rooms[msg.Code] = r
				msg.Reply <- r

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // May be nil

			case ListRooms:
				codes := make([]string, 0, len(h.rooms))
				for code := range h.rooms {
					codes = append(codes, code)
				}
				msg.Reply <- codes

			case RemoveRoom:
				h.remove(msg.Code)

			case SweepRooms:
				h.sweep()

			case ShutdownHub:
				for code := range h.rooms {
					h.remove(code)
				}
				h.cancel()
			}
		}
	}
}

// remove shuts a room's actor down and drops it from the map.
func (h *Hub) remove(code string) {
	r, ok := h.rooms[code]
	if !ok {
		return
	}
	select {
	case r.Inbox() <- room.Shutdown{}:
	default:
		// Actor already gone and its inbox full; just drop the entry.
	}
	delete(h.rooms, code)
}

// sweep removes every room whose game is over, plus any room whose actor
// has stopped answering.
func (h *Hub) sweep() {
	for code, r := range h.rooms {
		reply := make(chan room.View, 1)
		select {
		case r.Inbox() <- room.GetView{Reply: reply}:
		default:
			// Inbox full this instant; try again next cycle.
			continue
		}
		select {
		case v := <-reply:
			if v.State.Over {
				h.remove(code)
			}
		case <-time.After(100 * time.Millisecond):
			h.remove(code)
		}
	}
}
