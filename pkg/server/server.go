// Package server serves the game to browsers over a websocket, one game per
// connection, plus a JSON scoreboard.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trytobebee/candysnake/pkg/config"
	"github.com/trytobebee/candysnake/pkg/game"
	"github.com/trytobebee/candysnake/pkg/input"
	"github.com/trytobebee/candysnake/pkg/store"
)

//go:embed static
var staticFiles embed.FS

const writeWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// ServerMessage is what the server sends over the socket
type ServerMessage struct {
	Type   string           `json:"type"`
	Config *game.GameConfig `json:"config,omitempty"`
	State  *game.GameState  `json:"state,omitempty"`
	Result *game.StepResult `json:"result,omitempty"`
	Cause  game.Cause       `json:"cause,omitempty"`
}

// Options configures a Server
type Options struct {
	BoardSize    int
	MoveInterval time.Duration
	Store        *store.Store // optional
	Logger       *slog.Logger
	GameOptions  []game.Option
}

// Server hosts websocket game sessions
type Server struct {
	opts Options
	mux  *http.ServeMux
}

// New creates a server. Zero options fall back to the package defaults.
func New(opts Options) *Server {
	if opts.BoardSize == 0 {
		opts.BoardSize = config.DefaultBoardSize
	}
	if opts.MoveInterval == 0 {
		opts.MoveInterval = config.MoveInterval
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{opts: opts, mux: http.NewServeMux()}
	static, _ := fs.Sub(staticFiles, "static")
	s.mux.Handle("/", http.FileServer(http.FS(static)))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/api/scores", s.handleScores)
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.opts.Logger.Warn("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	logger := s.opts.Logger.With("remote", r.RemoteAddr)
	logger.Info("new websocket connection")

	g, err := game.NewGame(s.opts.BoardSize, s.opts.GameOptions...)
	if err != nil {
		logger.Error("create game", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Mutex to protect concurrent writes to the WebSocket connection
	var writeMu sync.Mutex
	safeWriteJSON := func(v any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(v)
	}

	gameConfig := g.GetGameConfig(s.opts.MoveInterval)
	if err := safeWriteJSON(ServerMessage{Type: "config", Config: &gameConfig}); err != nil {
		logger.Warn("write config", "error", err)
		return
	}

	loopOpts := []game.LoopOption{
		game.WithInterval(s.opts.MoveInterval),
		game.WithLogger(logger),
		game.WithController(game.Autopilot{}),
	}
	// The tracker runs first so a client that sees a finished game can
	// already find it on the scoreboard.
	if s.opts.Store != nil {
		tracker := store.NewTracker(ctx, s.opts.Store, r.URL.Query().Get("player"), logger)
		loopOpts = append(loopOpts, game.WithObserver(tracker.Observe))
	}
	loopOpts = append(loopOpts, game.WithObserver(func(ev game.Event) {
		msg := ServerMessage{Type: "state", State: &ev.State, Result: &ev.Result, Cause: ev.Cause}
		if err := safeWriteJSON(msg); err != nil {
			logger.Info("write state", "error", err)
			cancel()
		}
	}))

	loop := game.NewLoop(g, loopOpts...)
	go func() {
		_ = loop.Run(ctx)
	}()

	for {
		var msg input.ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Info("connection closed", "error", err)
			return
		}
		if err := s.dispatch(ctx, loop, msg); err != nil {
			logger.Info("dispatch", "action", msg.Action, "error", err)
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, loop *game.Loop, msg input.ClientMessage) error {
	action, dir := msg.Decode()
	switch action {
	case input.ActionMove:
		return loop.ChangeDirection(ctx, dir)
	case input.ActionRestart:
		return loop.Restart(ctx)
	case input.ActionAutopilot:
		state, err := loop.Snapshot(ctx)
		if err != nil {
			return err
		}
		return loop.SetAutopilot(ctx, !state.Autopilot)
	}
	return nil
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.opts.Store == nil {
		http.Error(w, "scoreboard disabled", http.StatusServiceUnavailable)
		return
	}

	boardSize := s.opts.BoardSize
	if v := r.URL.Query().Get("board"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid board", http.StatusBadRequest)
			return
		}
		boardSize = n
	}
	limit := config.ScoreboardSize
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	sessions, err := s.opts.Store.TopScores(r.Context(), boardSize, limit)
	if err != nil {
		s.opts.Logger.Error("top scores", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sessions)
}
