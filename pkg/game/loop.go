package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/trytobebee/candysnake/pkg/config"
)

// Cause says what triggered an Event
type Cause string

const (
	CauseStart     Cause = "start"
	CauseTick      Cause = "tick"
	CauseInput     Cause = "input"
	CauseReset     Cause = "reset"
	CauseAutopilot Cause = "autopilot"
)

// Event is delivered to observers after every change to the game
type Event struct {
	Cause  Cause      `json:"cause"`
	Result StepResult `json:"result"`
	State  GameState  `json:"state"`
}

// Observer is called on the loop goroutine. It must not call back into the
// Loop synchronously.
type Observer func(Event)

// LoopOption configures a Loop
type LoopOption func(*Loop)

// WithInterval sets the tick interval.
func WithInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		l.interval = d
	}
}

// WithObserver adds an observer. Observers run in the order they were added.
func WithObserver(o Observer) LoopOption {
	return func(l *Loop) {
		l.observers = append(l.observers, o)
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithController sets the controller consulted on ticks while the autopilot
// is on.
func WithController(c Controller) LoopOption {
	return func(l *Loop) {
		l.controller = c
	}
}

// WithAutopilot starts the loop with the controller already steering.
func WithAutopilot(on bool) LoopOption {
	return func(l *Loop) {
		l.autopilot = on
	}
}

type requestKind int

const (
	reqDirection requestKind = iota
	reqReset
	reqAutopilot
	reqSnapshot
)

type request struct {
	kind  requestKind
	dir   Direction
	on    bool
	reply chan reply
}

type reply struct {
	state GameState
	err   error
}

// Loop drives a Game from a fixed-interval timer and queued requests. All
// access to the game happens on the goroutine running Run, so exactly one
// step executes at a time.
type Loop struct {
	game       *Game
	interval   time.Duration
	observers  []Observer
	logger     *slog.Logger
	controller Controller
	autopilot  bool
	lastStatus Status

	requests chan request
	done     chan struct{}
}

// NewLoop wraps an initialized game. The loop owns the game from now on.
func NewLoop(g *Game, opts ...LoopOption) *Loop {
	l := &Loop{
		game:     g,
		interval: config.MoveInterval,
		logger:   slog.Default(),
		requests: make(chan request),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes ticks and requests until ctx is done. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	// The timer is the cancellable handle for the next scheduled tick.
	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	l.lastStatus = l.game.Status()
	l.logger.Info("game started",
		"board_size", l.game.BoardSize(),
		"interval", l.interval,
		"status", l.game.Status())
	l.emit(CauseStart, l.game.idleResult())
	l.rearm(timer)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timer.C:
			l.emit(CauseTick, l.tick())
			l.rearm(timer)

		case req := <-l.requests:
			req.reply <- l.handle(req, timer)
		}
	}
}

// tick performs the one step a timer tick is worth.
func (l *Loop) tick() StepResult {
	if l.autopilot && l.controller != nil && l.game.Status() == StatusRunning {
		dir := l.controller.NextDirection(l.game)
		if dir.Valid() && dir != l.game.Direction() {
			if res, changed := l.game.RequestDirectionChange(dir); changed {
				return res
			}
		}
	}
	return l.game.Step()
}

func (l *Loop) handle(req request, timer *time.Timer) reply {
	switch req.kind {
	case reqDirection:
		res, changed := l.game.RequestDirectionChange(req.dir)
		if changed {
			l.emit(CauseInput, res)
			// The immediate step replaces the pending tick.
			l.rearm(timer)
		}
	case reqReset:
		if err := l.game.Reset(); err != nil {
			return reply{state: l.state(), err: err}
		}
		l.logger.Info("game restarted", "board_size", l.game.BoardSize())
		l.emit(CauseReset, l.game.idleResult())
		l.rearm(timer)
	case reqAutopilot:
		if l.autopilot != req.on {
			l.autopilot = req.on
			l.logger.Info("autopilot toggled", "on", req.on)
			l.emit(CauseAutopilot, l.game.idleResult())
		}
	case reqSnapshot:
	}
	return reply{state: l.state()}
}

// rearm schedules the next tick a full interval from now, or cancels it once
// the game is no longer running.
func (l *Loop) rearm(timer *time.Timer) {
	if l.game.Status() == StatusRunning {
		timer.Reset(l.interval)
		return
	}
	timer.Stop()
}

func (l *Loop) state() GameState {
	state := l.game.State()
	state.Autopilot = l.autopilot
	return state
}

func (l *Loop) emit(cause Cause, res StepResult) {
	state := l.state()
	l.logger.Debug("step",
		"cause", cause,
		"moved_to", res.MovedTo,
		"ate", res.AteCandy,
		"score", state.Score,
		"status", state.Status)

	if state.Status != l.lastStatus && state.Status.Terminal() {
		attrs := []any{"score", state.Score, "steps", state.Steps}
		if state.Crash != nil {
			attrs = append(attrs, "collision", state.Crash.Collision, "cell", state.Crash.Cell)
		}
		l.logger.Info("game over: "+state.Status.String(), attrs...)
	}
	l.lastStatus = state.Status

	ev := Event{Cause: cause, Result: res, State: state}
	for _, o := range l.observers {
		o(ev)
	}
}

// ChangeDirection asks the game to turn. A rejected turn is not an error.
func (l *Loop) ChangeDirection(ctx context.Context, dir Direction) error {
	_, err := l.send(ctx, request{kind: reqDirection, dir: dir})
	return err
}

// Restart resets the game, whatever state it is in.
func (l *Loop) Restart(ctx context.Context) error {
	_, err := l.send(ctx, request{kind: reqReset})
	return err
}

// SetAutopilot turns the controller on or off.
func (l *Loop) SetAutopilot(ctx context.Context, on bool) error {
	_, err := l.send(ctx, request{kind: reqAutopilot, on: on})
	return err
}

// Snapshot returns the current state.
func (l *Loop) Snapshot(ctx context.Context) (GameState, error) {
	return l.send(ctx, request{kind: reqSnapshot})
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) send(ctx context.Context, req request) (GameState, error) {
	req.reply = make(chan reply, 1)
	select {
	case l.requests <- req:
	case <-l.done:
		return GameState{}, ErrLoopStopped
	case <-ctx.Done():
		return GameState{}, ctx.Err()
	}

	select {
	case r := <-req.reply:
		return r.state, r.err
	case <-ctx.Done():
		return GameState{}, ctx.Err()
	}
}
