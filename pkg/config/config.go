package config

import "time"

// Board dimensions
const (
	DefaultBoardSize = 21
	MinBoardSize     = 5 // room for the 3-segment snake plus a margin
	SnakeStartLength = 3
)

// Timing
const (
	MoveInterval   = 200 * time.Millisecond // one tick of the movement timer
	ReplayInterval = 100 * time.Millisecond // fixed playback rate for cmd/replay
)

// Recorder settings
const (
	RecordsDir       = "records"
	RecorderQueueLen = 1000 // frames buffered before the recorder starts dropping
)

// Storage settings
const (
	DBPath         = "data/game.db"
	ScoreboardSize = 10
)

// Web server settings
const (
	WebAddr = ":8080"
)

// Emoji characters for rendering
const (
	CharEmpty = "  " // Two spaces to match emoji width
	CharWall  = "⬜"
	CharHead  = "👀"
	CharBody  = "🟩"
	CharDead  = "💀"
)

// CandyEmojis is the cosmetic candy palette. Order matters: flavors are
// indices into this slice.
var CandyEmojis = []string{
	"🍬",
	"🍩",
	"🍪",
	"🍰",
	"🍓",
	"🍇",
	"🍒",
	"🍊",
	"🥞",
	"🧀",
}
