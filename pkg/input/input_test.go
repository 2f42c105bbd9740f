package input

import (
	"encoding/json"
	"testing"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trytobebee/candysnake/pkg/game"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		name  string
		input KeyInput
		want  game.Direction
		valid bool
	}{
		{"arrow up", KeyInput{Key: keyboard.KeyArrowUp}, game.DirUp, true},
		{"arrow down", KeyInput{Key: keyboard.KeyArrowDown}, game.DirDown, true},
		{"arrow left", KeyInput{Key: keyboard.KeyArrowLeft}, game.DirLeft, true},
		{"arrow right", KeyInput{Key: keyboard.KeyArrowRight}, game.DirRight, true},
		{"w", KeyInput{Char: 'w'}, game.DirUp, true},
		{"S", KeyInput{Char: 'S'}, game.DirDown, true},
		{"a", KeyInput{Char: 'a'}, game.DirLeft, true},
		{"D", KeyInput{Char: 'D'}, game.DirRight, true},
		{"other letter", KeyInput{Char: 'x'}, game.DirNone, false},
		{"space", KeyInput{Key: keyboard.KeySpace}, game.DirNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDirection(tt.input)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandKeys(t *testing.T) {
	assert.True(t, IsQuit(KeyInput{Char: 'q'}))
	assert.True(t, IsQuit(KeyInput{Key: keyboard.KeyEsc}))
	assert.True(t, IsQuit(KeyInput{Key: keyboard.KeyCtrlC}))
	assert.False(t, IsQuit(KeyInput{Char: 'w'}))

	assert.True(t, IsRestart(KeyInput{Char: 'R'}))
	assert.False(t, IsRestart(KeyInput{Char: 'q'}))

	assert.True(t, IsAutopilot(KeyInput{Char: 't'}))
	assert.False(t, IsAutopilot(KeyInput{Char: 'r'}))
}

func TestDirectionFromSwipe(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   game.Direction
		ok     bool
	}{
		{dx: 40, dy: 3, want: game.DirRight, ok: true},
		{dx: -40, dy: 39, want: game.DirLeft, ok: true},
		{dx: 2, dy: 30, want: game.DirDown, ok: true},
		{dx: 2, dy: -30, want: game.DirUp, ok: true},
		{dx: 10, dy: 10, want: game.DirDown, ok: true},
		{dx: -10, dy: -10, want: game.DirUp, ok: true},
		{dx: 0, dy: 0, want: game.DirNone, ok: false},
	}

	for _, tt := range tests {
		got, ok := DirectionFromSwipe(tt.dx, tt.dy)
		assert.Equal(t, tt.ok, ok, "(%v, %v)", tt.dx, tt.dy)
		assert.Equal(t, tt.want, got, "(%v, %v)", tt.dx, tt.dy)
	}
}

func TestClientMessageDecode(t *testing.T) {
	tests := []struct {
		raw    string
		action Action
		dir    game.Direction
	}{
		{`{"action":"up"}`, ActionMove, game.DirUp},
		{`{"action":"right"}`, ActionMove, game.DirRight},
		{`{"action":"swipe","dx":-12.5,"dy":4}`, ActionMove, game.DirLeft},
		{`{"action":"swipe"}`, ActionNone, game.DirNone},
		{`{"action":"restart"}`, ActionRestart, game.DirNone},
		{`{"action":"auto"}`, ActionAutopilot, game.DirNone},
		{`{"action":"dance"}`, ActionNone, game.DirNone},
		{`{}`, ActionNone, game.DirNone},
	}

	for _, tt := range tests {
		var msg ClientMessage
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &msg), tt.raw)
		action, dir := msg.Decode()
		assert.Equal(t, tt.action, action, tt.raw)
		assert.Equal(t, tt.dir, dir, tt.raw)
	}
}
