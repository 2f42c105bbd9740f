package game

import (
	"fmt"

	"github.com/trytobebee/candysnake/pkg/config"
)

// Direction is one of the four movement directions
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

var directionNames = map[Direction]string{
	DirUp:    "up",
	DirDown:  "down",
	DirLeft:  "left",
	DirRight: "right",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "none"
}

// Valid reports whether d is one of the four movement directions.
func (d Direction) Valid() bool {
	return d >= DirUp && d <= DirRight
}

// Vertical reports whether d moves between rows.
func (d Direction) Vertical() bool {
	return d == DirUp || d == DirDown
}

// Sign is -1 for Up and Left, +1 for Down and Right.
func (d Direction) Sign() int {
	switch d {
	case DirUp, DirLeft:
		return -1
	case DirDown, DirRight:
		return 1
	}
	return 0
}

// Opposite returns the direction on the same axis with the other sign.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return DirNone
}

// IsOpposite compares axis and sign explicitly rather than delta magnitudes.
func (d Direction) IsOpposite(other Direction) bool {
	return d.Valid() && other.Valid() &&
		d.Vertical() == other.Vertical() && d.Sign() == -other.Sign()
}

// Delta returns the cell index offset of one move on a board of the given size.
func (d Direction) Delta(boardSize int) int {
	if d.Vertical() {
		return d.Sign() * boardSize
	}
	return d.Sign()
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	if string(text) == "none" {
		*d = DirNone
		return nil
	}
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection parses "up", "down", "left" or "right".
func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return DirNone, fmt.Errorf("unknown direction %q", s)
}

// Status is the lifecycle state of a game
type Status int

const (
	StatusNotStarted Status = iota
	StatusRunning
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "not_started"
	}
}

// Terminal reports whether only a reset can leave this status.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "not_started":
		*s = StatusNotStarted
	case "running":
		*s = StatusRunning
	case "won":
		*s = StatusWon
	case "lost":
		*s = StatusLost
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Collision names the rule that ended a game
type Collision int

const (
	CollisionNone Collision = iota
	CollisionWall           // horizontal wrap or leaving the top/bottom rows
	CollisionSelf
)

func (c Collision) String() string {
	switch c {
	case CollisionWall:
		return "wall"
	case CollisionSelf:
		return "self"
	default:
		return "none"
	}
}

func (c Collision) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Collision) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*c = CollisionNone
	case "wall":
		*c = CollisionWall
	case "self":
		*c = CollisionSelf
	default:
		return fmt.Errorf("unknown collision %q", text)
	}
	return nil
}

// Flavor is the cosmetic kind of a candy, an index into config.CandyEmojis
type Flavor int

// Emoji returns the glyph for the flavor.
func (f Flavor) Emoji() string {
	if f < 0 || int(f) >= len(config.CandyEmojis) {
		return config.CandyEmojis[0]
	}
	return config.CandyEmojis[f]
}

// Candy is the single consumable item on the board
type Candy struct {
	Cell   int    `json:"cell"`
	Flavor Flavor `json:"flavor"`
}

// Crash records where and why a game was lost
type Crash struct {
	Cell      int       `json:"cell"` // the cell the head tried to enter, may be off-board
	Collision Collision `json:"collision"`
}

// StepResult describes what one step changed. Applying it to the previous
// state reproduces the next one.
type StepResult struct {
	Moved       bool      `json:"moved"`
	MovedTo     int       `json:"movedTo"`
	AteCandy    bool      `json:"ateCandy"`
	NewCandy    *Candy    `json:"newCandy,omitempty"`
	RemovedTail *int      `json:"removedTail,omitempty"`
	Collision   Collision `json:"collision"`
	Status      Status    `json:"status"`
	Score       int       `json:"score"`
}

// GameState is a snapshot of the current game for renderers and clients
type GameState struct {
	BoardSize int       `json:"boardSize"`
	Snake     []int     `json:"snake"` // tail first, head last
	Candy     *Candy    `json:"candy,omitempty"`
	Direction Direction `json:"direction"`
	Score     int       `json:"score"`
	Steps     int       `json:"steps"`
	Status    Status    `json:"status"`
	Crash     *Crash    `json:"crash,omitempty"`
	Autopilot bool      `json:"autopilot"`
}

// Head returns the head cell of the snapshot, or -1 when the snake is empty.
func (s GameState) Head() int {
	if len(s.Snake) == 0 {
		return -1
	}
	return s.Snake[len(s.Snake)-1]
}

// GameConfig is a DTO for game settings sent to a client on connect
type GameConfig struct {
	BoardSize      int      `json:"boardSize"`
	MoveIntervalMS int      `json:"moveIntervalMs"`
	Candies        []string `json:"candies"`
}
