package game

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"github.com/trytobebee/candysnake/pkg/config"
)

// Rand is the randomness used for candy placement
type Rand interface {
	Intn(n int) int
}

// Option configures a Game
type Option func(*Game)

// WithRand sets the random source for candy placement and flavor.
func WithRand(r Rand) Option {
	return func(g *Game) {
		g.rng = r
	}
}

// WithSeed makes candy placement reproducible.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithBoardSize sets the size Reset uses before Initialize was ever called.
func WithBoardSize(size int) Option {
	return func(g *Game) {
		g.boardSize = size
	}
}

// Game is the snake state machine. It is not safe for concurrent use; Loop
// serializes access to it.
type Game struct {
	boardSize int
	snake     []int // tail first, head last
	occupied  map[int]struct{}
	direction Direction
	candy     *Candy
	score     int
	steps     int
	status    Status
	crash     *Crash
	rng       Rand
}

// New creates a game that has not started yet.
func New(opts ...Option) *Game {
	g := &Game{
		boardSize: config.DefaultBoardSize,
		occupied:  make(map[int]struct{}),
		status:    StatusNotStarted,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return g
}

// NewGame creates a game and initializes it on a board of the given size.
func NewGame(boardSize int, opts ...Option) (*Game, error) {
	g := New(opts...)
	if err := g.Initialize(boardSize); err != nil {
		return nil, err
	}
	return g, nil
}

// startingSnake lays out three vertical segments through the board center,
// tail at the center and head two rows above it.
func startingSnake(boardSize int) []int {
	center := boardSize * boardSize / 2
	if boardSize%2 == 0 {
		center += boardSize / 2
	}
	snake := make([]int, config.SnakeStartLength)
	for i := range snake {
		snake[i] = center - boardSize*i
	}
	return snake
}

// Initialize starts a new game on a board of the given size. The game is left
// untouched when it fails.
func (g *Game) Initialize(boardSize int) error {
	if boardSize < config.MinBoardSize {
		return fmt.Errorf("%w: board size %d is below the minimum of %d",
			ErrInvalidConfiguration, boardSize, config.MinBoardSize)
	}

	snake := startingSnake(boardSize)
	occupied := make(map[int]struct{}, len(snake))
	for _, cell := range snake {
		occupied[cell] = struct{}{}
	}
	candy, err := placeCandy(boardSize, occupied, nil, g.rng)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	g.boardSize = boardSize
	g.snake = snake
	g.occupied = occupied
	g.direction = DirUp
	g.candy = &candy
	g.score = 0
	g.steps = 0
	g.crash = nil
	g.status = StatusRunning
	return nil
}

// Reset clears the current game and initializes a new one on the same board.
func (g *Game) Reset() error {
	g.snake = nil
	g.occupied = make(map[int]struct{})
	g.direction = DirNone
	g.candy = nil
	g.score = 0
	g.steps = 0
	g.crash = nil
	g.status = StatusNotStarted
	return g.Initialize(g.boardSize)
}

// RequestDirectionChange turns the snake and steps at once. The bool reports
// whether the request changed anything; rejected requests leave the game as it
// was.
func (g *Game) RequestDirectionChange(dir Direction) (StepResult, bool) {
	if g.status != StatusRunning || !dir.Valid() || dir.IsOpposite(g.direction) {
		return g.idleResult(), false
	}

	// Turning sideways on the edge column loses without moving.
	head := g.Head()
	if g.wrapsHorizontally(head, dir) {
		return g.lose(head+dir.Delta(g.boardSize), CollisionWall), true
	}

	g.direction = dir
	return g.Step(), true
}

// Step advances the snake one cell in its current direction.
func (g *Game) Step() StepResult {
	if g.status != StatusRunning {
		return g.idleResult()
	}

	head := g.Head()
	next := head + g.direction.Delta(g.boardSize)
	if c := g.checkCollision(head, next); c != CollisionNone {
		return g.lose(next, c)
	}

	g.snake = append(g.snake, next)
	g.occupied[next] = struct{}{}
	g.steps++
	res := StepResult{Moved: true, MovedTo: next}

	if g.candy != nil && g.candy.Cell == next {
		g.candy = nil
		g.score++
		res.AteCandy = true
		if len(g.snake) == g.boardSize*g.boardSize {
			g.status = StatusWon
		} else if err := g.spawnCandy(); err != nil {
			// unreachable while a free cell exists; a full board is a win
			g.status = StatusWon
		} else {
			c := *g.candy
			res.NewCandy = &c
		}
	} else {
		tail := g.snake[0]
		g.snake = g.snake[1:]
		delete(g.occupied, tail)
		res.RemovedTail = &tail
	}

	res.Status = g.status
	res.Score = g.score
	return res
}

func (g *Game) wrapsHorizontally(head int, dir Direction) bool {
	col := head % g.boardSize
	return (dir == DirRight && col == g.boardSize-1) || (dir == DirLeft && col == 0)
}

// checkCollision applies the loss rules in order: wrap, bounds, body.
func (g *Game) checkCollision(head, next int) Collision {
	if g.wrapsHorizontally(head, g.direction) {
		return CollisionWall
	}
	if next < 0 || next >= g.boardSize*g.boardSize {
		return CollisionWall
	}
	if _, hit := g.occupied[next]; hit {
		return CollisionSelf
	}
	return CollisionNone
}

func (g *Game) lose(cell int, c Collision) StepResult {
	g.status = StatusLost
	g.crash = &Crash{Cell: cell, Collision: c}
	return StepResult{
		MovedTo:   g.Head(),
		Collision: c,
		Status:    g.status,
		Score:     g.score,
	}
}

func (g *Game) idleResult() StepResult {
	res := StepResult{MovedTo: g.Head(), Status: g.status, Score: g.score}
	if g.crash != nil {
		res.Collision = g.crash.Collision
	}
	return res
}

// BoardSize returns the side length of the board.
func (g *Game) BoardSize() int { return g.boardSize }

// Status returns the lifecycle state.
func (g *Game) Status() Status { return g.status }

// Score returns the number of candies eaten.
func (g *Game) Score() int { return g.score }

// Steps returns the number of moves made since the game started.
func (g *Game) Steps() int { return g.steps }

// Direction returns the current movement direction.
func (g *Game) Direction() Direction { return g.direction }

// Head returns the head cell, or -1 before the game starts.
func (g *Game) Head() int {
	if len(g.snake) == 0 {
		return -1
	}
	return g.snake[len(g.snake)-1]
}

// SnakeCells returns a copy of the snake, tail first.
func (g *Game) SnakeCells() []int {
	cells := make([]int, len(g.snake))
	copy(cells, g.snake)
	return cells
}

// Occupied reports whether a snake segment is on cell.
func (g *Game) Occupied(cell int) bool {
	_, ok := g.occupied[cell]
	return ok
}

// CandyCell returns the candy position if there is one.
func (g *Game) CandyCell() (int, bool) {
	if g.candy == nil {
		return 0, false
	}
	return g.candy.Cell, true
}

// Candy returns the active candy if there is one.
func (g *Game) Candy() (Candy, bool) {
	if g.candy == nil {
		return Candy{}, false
	}
	return *g.candy, true
}

// Crash returns where the game was lost.
func (g *Game) Crash() (Crash, bool) {
	if g.crash == nil {
		return Crash{}, false
	}
	return *g.crash, true
}

// State returns a snapshot that shares no memory with the game.
func (g *Game) State() GameState {
	state := GameState{
		BoardSize: g.boardSize,
		Snake:     g.SnakeCells(),
		Direction: g.direction,
		Score:     g.score,
		Steps:     g.steps,
		Status:    g.status,
	}
	if g.candy != nil {
		c := *g.candy
		state.Candy = &c
	}
	if g.crash != nil {
		c := *g.crash
		state.Crash = &c
	}
	return state
}

// GetGameConfig returns the settings a client needs to draw the board.
func (g *Game) GetGameConfig(moveInterval time.Duration) GameConfig {
	return GameConfig{
		BoardSize:      g.boardSize,
		MoveIntervalMS: int(moveInterval.Milliseconds()),
		Candies:        config.CandyEmojis,
	}
}
