// internal/room/room.go
//
// Room actor: a goroutine owns the game state and serializes everything
// through an inbox channel, so the engine never needs a lock. Clients
// register an outbox and receive versioned snapshots; a client whose
// outbox is full is dropped rather than allowed to stall the room.

package room

import (
	"context"
)

type Msg interface{ isRoomMsg() }

// Join registers a player and a snapshot outbox for their connection.
type Join struct {
	PlayerID string
	Name     string
	Outbox   chan Snapshot
}

func (Join) isRoomMsg() {}

// Leave drops the connection; the player's score stays on the board.
type Leave struct{ PlayerID string }

func (Leave) isRoomMsg() {}

// FromClient carries one engine command from a connection.
type FromClient struct {
	Cmd   Command
	Errs  chan error // optional; receives the rule error, nil on success
}

func (FromClient) isRoomMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// Snapshot is what clients receive after every accepted state change.
type Snapshot struct {
	Version int
	State   State
	Events  []Event
}

// View reflects internal state for tests and the lobby listing.
type View struct {
	Version    int
	NumClients int
	State      State
}

// Room owns one game. All state access happens on the actor goroutine.
type Room struct {
	inbox   chan Msg
	state   State
	version int
	dict    Dictionary
	clients map[string]chan Snapshot
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewRoom starts the actor goroutine.
func NewRoom(parent context.Context, initial State, dict Dictionary) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:   make(chan Msg, 64),
		state:   initial,
		dict:    dict,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
	}
	go r.loop()
	return r
}

// Inbox exposes the message channel to the WS layer and tests.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				if _, ok := r.state.Players[msg.PlayerID]; !ok {
					r.state.Players[msg.PlayerID] = &PlayerState{Name: msg.Name}
				}
				r.clients[msg.PlayerID] = msg.Outbox
				r.version++
				r.broadcast(Snapshot{Version: r.version, State: r.state})

			case Leave:
				if ch, ok := r.clients[msg.PlayerID]; ok {
					close(ch)
					delete(r.clients, msg.PlayerID)
				}

			case FromClient:
				events, newState, err := Apply(r.state, msg.Cmd, r.dict)
				if msg.Errs != nil {
					select {
					case msg.Errs <- err:
					default:
					}
				}
				if err != nil {
					break
				}
				r.state = newState
				r.version++
				r.broadcast(Snapshot{Version: r.version, State: r.state, Events: events})

			case GetView:
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					State:      r.state,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}

func (r *Room) broadcast(snap Snapshot) {
	for id, ch := range r.clients {
		select {
		case ch <- snap:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(r.clients, id)
		}
	}
}
