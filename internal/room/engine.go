// internal/room/engine.go
//
// Pure rules engine for live game rooms: Apply takes the current state
// and one command, and returns the events it caused plus the new state.
// All rule checks live here; the actor in room.go only sequences calls.

package room

import (
	"errors"
	"strings"
)

var (
	ErrNotJoined        = errors.New("room: player not in room")
	ErrGameOver         = errors.New("room: game already completed")
	ErrTooShort         = errors.New("room: word must be at least 3 letters")
	ErrWordNotAllowed   = errors.New("room: word not in allowed list")
	ErrNotOnBoard       = errors.New("room: word cannot be traced on the board")
	ErrDuplicateWord    = errors.New("room: word already submitted")
	ErrAlreadySubmitted = errors.New("room: one-shot rooms allow a single submission")
	ErrUnsupportedCmd   = errors.New("room: unsupported command")
)

// Dictionary answers whether a word may be submitted at all.
type Dictionary interface {
	IsAllowed(word string) bool
}

// PlayerState is one player's standing within the room.
type PlayerState struct {
	Name  string   `json:"name"`
	Score int      `json:"score"`
	Words []string `json:"words"`
}

// State is the full room game state.
type State struct {
	Board   Board                   `json:"board"`
	OneShot bool                    `json:"oneShot"`
	Players map[string]*PlayerState `json:"players"`
	Over    bool                    `json:"over"`
}

// NewState starts a game on the given board.
func NewState(b Board, oneShot bool) State {
	return State{Board: b, OneShot: oneShot, Players: make(map[string]*PlayerState)}
}

type CommandType string

const (
	CmdSubmitWord CommandType = "SubmitWord"
	CmdEndGame    CommandType = "EndGame"
)

type Command struct {
	Type     CommandType
	PlayerID string
	Word     string
}

type EventType string

const (
	EvtWordAccepted  EventType = "WordAccepted"
	EvtGameCompleted EventType = "GameCompleted"
)

type Event struct {
	Type     EventType
	PlayerID string
	Word     string
	Points   int
}

// Apply validates and executes one command against the state.
// On error the returned state is the input, untouched.
func Apply(s State, cmd Command, dict Dictionary) ([]Event, State, error) {
	switch cmd.Type {
	case CmdSubmitWord:
		if s.Over {
			return nil, s, ErrGameOver
		}
		player, ok := s.Players[cmd.PlayerID]
		if !ok {
			return nil, s, ErrNotJoined
		}
		if s.OneShot && len(player.Words) > 0 {
			return nil, s, ErrAlreadySubmitted
		}

		word := strings.ToLower(strings.TrimSpace(cmd.Word))
		if len(word) < 3 {
			return nil, s, ErrTooShort
		}
		for _, prior := range player.Words {
			if prior == word {
				return nil, s, ErrDuplicateWord
			}
		}
		if !dict.IsAllowed(word) {
			return nil, s, ErrWordNotAllowed
		}
		path, ok := s.Board.FindPath(word)
		if !ok {
			return nil, s, ErrNotOnBoard
		}

		pts := s.Board.Score(word, path)
		newState := s
		player.Words = append(player.Words, word)
		player.Score += pts

		events := []Event{{Type: EvtWordAccepted, PlayerID: cmd.PlayerID, Word: word, Points: pts}}
		if newState.OneShot && allSubmitted(newState) {
			newState.Over = true
			events = append(events, Event{Type: EvtGameCompleted})
		}
		return events, newState, nil

	case CmdEndGame:
		if s.Over {
			return nil, s, ErrGameOver
		}
		newState := s
		newState.Over = true
		return []Event{{Type: EvtGameCompleted}}, newState, nil

	default:
		return nil, s, ErrUnsupportedCmd
	}
}

func allSubmitted(s State) bool {
	for _, p := range s.Players {
		if len(p.Words) == 0 {
			return false
		}
	}
	return len(s.Players) > 0
}
