package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trytobebee/candysnake/pkg/config"
	"github.com/trytobebee/candysnake/pkg/game"
)

func frame(state game.GameState) string {
	var sb strings.Builder
	NewTerminalRenderer(io.Discard).Frame(&sb, state)
	return sb.String()
}

// boardRows returns the drawn rows between the top and bottom walls.
func boardRows(t *testing.T, out string, size int) []string {
	t.Helper()
	wall := "  " + strings.Repeat(config.CharWall, size+2)
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if line == wall {
			require.Greater(t, len(lines), i+size+1)
			return lines[i+1 : i+1+size]
		}
	}
	t.Fatal("top wall not found")
	return nil
}

func TestFrameRunning(t *testing.T) {
	state := game.GameState{
		BoardSize: 5,
		Snake:     []int{12, 7, 2},
		Candy:     &game.Candy{Cell: 24, Flavor: 4},
		Direction: game.DirUp,
		Score:     7,
		Status:    game.StatusRunning,
	}
	out := frame(state)

	assert.Contains(t, out, "Score: 007  |  Length: 3\n")
	assert.NotContains(t, out, "AUTOPILOT")
	assert.NotContains(t, out, "GAME OVER")

	rows := boardRows(t, out, 5)
	w, e, b, h := config.CharWall, config.CharEmpty, config.CharBody, config.CharHead
	assert.Equal(t, "  "+w+e+e+h+e+e+w, rows[0])
	assert.Equal(t, "  "+w+e+e+b+e+e+w, rows[1])
	assert.Equal(t, "  "+w+e+e+b+e+e+w, rows[2])
	assert.Equal(t, "  "+w+e+e+e+e+e+w, rows[3])
	assert.Equal(t, "  "+w+e+e+e+e+"🍓"+w, rows[4])
}

func TestFrameLost(t *testing.T) {
	state := game.GameState{
		BoardSize: 5,
		Snake:     []int{7, 2, 1, 0},
		Candy:     &game.Candy{Cell: 3},
		Score:     1,
		Status:    game.StatusLost,
		Crash:     &game.Crash{Cell: -1, Collision: game.CollisionWall},
		Autopilot: true,
	}
	out := frame(state)

	rows := boardRows(t, out, 5)
	assert.True(t, strings.HasPrefix(rows[0], "  "+config.CharWall+config.CharDead), rows[0])
	assert.NotContains(t, out, config.CharHead)
	assert.Contains(t, out, "AUTOPILOT")
	assert.Contains(t, out, "GAME OVER")
}

func TestFrameWon(t *testing.T) {
	snake := make([]int, 25)
	for i := range snake {
		snake[i] = i
	}
	out := frame(game.GameState{BoardSize: 5, Snake: snake, Score: 22, Status: game.StatusWon})

	assert.Contains(t, out, "YOU WIN")
	assert.Equal(t, 24, strings.Count(out, config.CharBody))
	assert.Equal(t, 1, strings.Count(out, config.CharHead))
}

func TestFrameIgnoresOffBoardCells(t *testing.T) {
	assert.NotPanics(t, func() {
		frame(game.GameState{
			BoardSize: 5,
			Snake:     []int{-3, 30},
			Candy:     &game.Candy{Cell: 99},
			Status:    game.StatusRunning,
		})
	})
}

func TestRenderClearsScreenAndReusesBoard(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminalRenderer(&buf)
	r.SetFooter("  custom footer\n")

	r.Observe(game.Event{State: game.GameState{BoardSize: 9, Snake: []int{40, 31, 22}, Status: game.StatusRunning}})
	first := buf.String()
	assert.True(t, strings.HasPrefix(first, "\033[H\033[2J"))
	assert.Contains(t, first, "custom footer")

	buf.Reset()
	r.Render(game.GameState{BoardSize: 5, Snake: []int{12, 7, 2}, Status: game.StatusRunning})
	assert.Equal(t, 25, len(r.board))
	assert.Equal(t, 1, strings.Count(buf.String(), config.CharHead))
}

func benchState() game.GameState {
	g, err := game.NewGame(config.DefaultBoardSize, game.WithSeed(1))
	if err != nil {
		panic(err)
	}
	return g.State()
}

// BenchmarkFrameRender draws into a reused builder with one write per frame.
func BenchmarkFrameRender(b *testing.B) {
	r := NewTerminalRenderer(io.Discard)
	state := benchState()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Render(state)
	}
}

// BenchmarkNaiveRender writes every cell with its own Fprint call.
func BenchmarkNaiveRender(b *testing.B) {
	state := benchState()
	occupied := map[int]bool{}
	for _, c := range state.Snake {
		occupied[c] = true
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fmt.Fprint(io.Discard, "\033[H\033[2J")
		fmt.Fprintf(io.Discard, "  Score: %03d\n", state.Score)
		for cell := 0; cell < state.BoardSize*state.BoardSize; cell++ {
			switch {
			case occupied[cell]:
				fmt.Fprint(io.Discard, config.CharBody)
			case state.Candy != nil && state.Candy.Cell == cell:
				fmt.Fprint(io.Discard, state.Candy.Emoji())
			default:
				fmt.Fprint(io.Discard, config.CharEmpty)
			}
			if cell%state.BoardSize == state.BoardSize-1 {
				fmt.Fprintln(io.Discard)
			}
		}
	}
}
