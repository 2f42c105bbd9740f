package input

import (
	"math"

	"github.com/trytobebee/candysnake/pkg/game"
)

// Action is a decoded client command
type Action int

const (
	ActionNone Action = iota
	ActionMove
	ActionRestart
	ActionAutopilot
)

// ClientMessage is what web clients send over the socket
type ClientMessage struct {
	Action string  `json:"action"`
	DX     float64 `json:"dx,omitempty"` // swipe vector, screen coordinates
	DY     float64 `json:"dy,omitempty"`
}

// Decode turns a client message into an action and, for moves, a direction.
func (m ClientMessage) Decode() (Action, game.Direction) {
	switch m.Action {
	case "up":
		return ActionMove, game.DirUp
	case "down":
		return ActionMove, game.DirDown
	case "left":
		return ActionMove, game.DirLeft
	case "right":
		return ActionMove, game.DirRight
	case "swipe":
		if dir, ok := DirectionFromSwipe(m.DX, m.DY); ok {
			return ActionMove, dir
		}
	case "restart":
		return ActionRestart, game.DirNone
	case "auto":
		return ActionAutopilot, game.DirNone
	}
	return ActionNone, game.DirNone
}

// DirectionFromSwipe picks the dominant axis of a drag vector; its sign gives
// the direction. Screen coordinates grow right and down. Ties go to the
// vertical axis, a zero vector is rejected.
func DirectionFromSwipe(dx, dy float64) (game.Direction, bool) {
	if dx == 0 && dy == 0 {
		return game.DirNone, false
	}
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return game.DirRight, true
		}
		return game.DirLeft, true
	}
	if dy > 0 {
		return game.DirDown, true
	}
	return game.DirUp, true
}
