package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/trytobebee/candysnake/pkg/config"
	"github.com/trytobebee/candysnake/pkg/game"
)

// TerminalRenderer handles terminal-based rendering
type TerminalRenderer struct {
	out    io.Writer
	board  []int
	buffer strings.Builder
	footer string
}

// Cell types for the board
const (
	cellEmpty = iota
	cellHead
	cellBody
	cellCandy
	cellDead
)

// NewTerminalRenderer creates a renderer writing to out
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	return &TerminalRenderer{
		out:    out,
		footer: "  Use WASD or Arrow keys to move, T for autopilot\n  R to restart, Q to quit\n",
	}
}

// SetFooter replaces the help text under the board.
func (r *TerminalRenderer) SetFooter(footer string) {
	r.footer = footer
}

// ShowCursor shows the cursor (call on exit)
func (r *TerminalRenderer) ShowCursor() {
	fmt.Fprint(r.out, "\033[?25h")
}

// HideCursor hides the cursor (call on start)
func (r *TerminalRenderer) HideCursor() {
	fmt.Fprint(r.out, "\033[?25l")
}

// Observe renders every loop event. It is meant to be passed to
// game.WithObserver.
func (r *TerminalRenderer) Observe(ev game.Event) {
	r.Render(ev.State)
}

// Render draws the state, clearing the screen first
func (r *TerminalRenderer) Render(state game.GameState) {
	r.buffer.Reset()
	r.buffer.WriteString("\033[H\033[2J\033[3J")
	r.Frame(&r.buffer, state)
	io.WriteString(r.out, r.buffer.String())
}

// Frame writes one frame without any terminal control codes.
func (r *TerminalRenderer) Frame(w io.StringWriter, state game.GameState) {
	size := state.BoardSize
	if cap(r.board) < size*size {
		r.board = make([]int, size*size)
	}
	r.board = r.board[:size*size]
	for i := range r.board {
		r.board[i] = cellEmpty
	}

	for i, cell := range state.Snake {
		if cell < 0 || cell >= len(r.board) {
			continue
		}
		if i == len(state.Snake)-1 {
			if state.Status == game.StatusLost {
				r.board[cell] = cellDead
			} else {
				r.board[cell] = cellHead
			}
		} else {
			r.board[cell] = cellBody
		}
	}
	if state.Candy != nil && state.Candy.Cell >= 0 && state.Candy.Cell < len(r.board) {
		r.board[state.Candy.Cell] = cellCandy
	}

	w.WriteString("\n  🐍 SNAKE 🐍\n")
	auto := ""
	if state.Autopilot {
		auto = "  |  🤖 AUTOPILOT"
	}
	w.WriteString(fmt.Sprintf("  Score: %03d  |  Length: %d%s\n\n", state.Score, len(state.Snake), auto))

	wall := strings.Repeat(config.CharWall, size+2)
	w.WriteString("  " + wall + "\n")
	for row := 0; row < size; row++ {
		w.WriteString("  " + config.CharWall)
		for col := 0; col < size; col++ {
			switch r.board[row*size+col] {
			case cellHead:
				w.WriteString(config.CharHead)
			case cellBody:
				w.WriteString(config.CharBody)
			case cellDead:
				w.WriteString(config.CharDead)
			case cellCandy:
				w.WriteString(state.Candy.Emoji())
			default:
				w.WriteString(config.CharEmpty)
			}
		}
		w.WriteString(config.CharWall + "\n")
	}
	w.WriteString("  " + wall + "\n\n")

	w.WriteString(r.footer)

	switch state.Status {
	case game.StatusLost:
		w.WriteString("\n  💀 GAME OVER! Press R to restart or Q to quit\n")
	case game.StatusWon:
		w.WriteString("\n  🏆 YOU WIN! The board is full. Press R to play again\n")
	}
}
