package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/trytobebee/candysnake/pkg/config"
)

// StepRecord is one line of a recording
type StepRecord struct {
	SessionID string     `json:"sessionId"`
	StepID    int        `json:"stepId"`
	Time      time.Time  `json:"time"`
	Cause     Cause      `json:"cause"`
	Result    StepResult `json:"result"`
	State     GameState  `json:"state"`
}

// GameRecorder handles asynchronous logging of game steps
type GameRecorder struct {
	sessionID  string
	path       string
	file       *os.File
	writer     *bufio.Writer
	recordChan chan StepRecord
	wg         sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
	nextID     int
	dropped    atomic.Int64
	logger     *slog.Logger
}

// NewRecorder creates a recorder that writes to dir.
// Filename format: game_{sessionID}_{timestamp}.jsonl
func NewRecorder(dir, sessionID string, logger *slog.Logger) (*GameRecorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create records dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	filename := fmt.Sprintf("game_%s_%d.jsonl", sessionID, time.Now().Unix())
	path := filepath.Join(dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create record file: %w", err)
	}

	r := &GameRecorder{
		sessionID:  sessionID,
		path:       path,
		file:       f,
		writer:     bufio.NewWriter(f),
		recordChan: make(chan StepRecord, config.RecorderQueueLen),
		logger:     logger,
	}

	r.wg.Add(1)
	go r.writeLoop()

	return r, nil
}

// Path returns the file being written.
func (r *GameRecorder) Path() string {
	return r.path
}

// Dropped returns how many records were discarded because the queue was full.
func (r *GameRecorder) Dropped() int64 {
	return r.dropped.Load()
}

// Observe records a loop event. It is meant to be passed to WithObserver.
func (r *GameRecorder) Observe(ev Event) {
	r.nextID++
	r.RecordStep(StepRecord{
		SessionID: r.sessionID,
		StepID:    r.nextID,
		Time:      time.Now(),
		Cause:     ev.Cause,
		Result:    ev.Result,
		State:     ev.State,
	})
}

// RecordStep queues a record to be written. Non-blocking (drops if full).
func (r *GameRecorder) RecordStep(rec StepRecord) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	select {
	case r.recordChan <- rec:
	default:
		// Channel full, drop frame to protect game loop performance
		r.dropped.Add(1)
	}
}

// Close flushes the buffer and closes the file
func (r *GameRecorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.recordChan)
	r.mu.Unlock()

	r.wg.Wait()
	return r.file.Close()
}

func (r *GameRecorder) writeLoop() {
	defer r.wg.Done()

	encoder := json.NewEncoder(r.writer)
	for rec := range r.recordChan {
		if err := encoder.Encode(rec); err != nil {
			r.logger.Error("record step", "step", rec.StepID, "error", err)
		}
	}
	if err := r.writer.Flush(); err != nil {
		r.logger.Error("flush recording", "path", r.path, "error", err)
	}
}

// ReadRecords decodes a recording line by line and hands each record to fn.
// Malformed lines are skipped.
func ReadRecords(rd io.Reader, fn func(StepRecord) error) error {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var rec StepRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return scanner.Err()
}
