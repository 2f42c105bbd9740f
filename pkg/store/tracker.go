package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trytobebee/candysnake/pkg/game"
	"github.com/trytobebee/candysnake/pkg/logging"
)

// Tracker is a loop observer that stores every game once it ends.
type Tracker struct {
	ctx       context.Context
	store     *Store
	player    string
	logger    *slog.Logger
	sessionID string
	startedAt time.Time
	recorded  bool
	now       func() time.Time
}

// NewTracker creates a tracker. ctx bounds the database writes; a nil logger
// falls back to the one carried by ctx.
func NewTracker(ctx context.Context, s *Store, player string, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	return &Tracker{
		ctx:    ctx,
		store:  s,
		player: player,
		logger: logger,
		now:    time.Now,
	}
}

// SessionID returns the id of the game being tracked.
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Observe implements game.Observer.
func (t *Tracker) Observe(ev game.Event) {
	if ev.Cause == game.CauseStart || ev.Cause == game.CauseReset || t.sessionID == "" {
		t.sessionID = uuid.NewString()
		t.startedAt = t.now()
		t.recorded = false
	}
	if t.recorded || !ev.State.Status.Terminal() {
		return
	}

	t.recorded = true
	session := Session{
		ID:        t.sessionID,
		Player:    t.player,
		BoardSize: ev.State.BoardSize,
		Score:     ev.State.Score,
		Steps:     ev.State.Steps,
		Status:    ev.State.Status,
		StartedAt: t.startedAt,
		EndedAt:   t.now(),
	}
	if err := t.store.RecordSession(t.ctx, session); err != nil {
		t.logger.Error("record session", "session", t.sessionID, "error", err)
		return
	}
	t.logger.Info("session recorded", "session", t.sessionID, "score", session.Score)
}
