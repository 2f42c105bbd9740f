// Command import_records loads finished games from step recordings into the
// scoreboard database. Games already imported are skipped.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/trytobebee/candysnake/pkg/config"
	"github.com/trytobebee/candysnake/pkg/game"
	"github.com/trytobebee/candysnake/pkg/store"
)

func main() {
	recordDir := flag.String("dir", config.RecordsDir, "Directory holding recordings.")
	dbPath := flag.String("db", config.DBPath, "Scoreboard database.")
	player := flag.String("player", "", "Player name stored with imported games.")
	flag.Parse()

	matches, err := filepath.Glob(filepath.Join(*recordDir, "game_*.jsonl"))
	if err != nil {
		log.Fatal(err)
	}
	if len(matches) == 0 {
		log.Fatalf("no recordings found in %s", *recordDir)
	}

	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal("Failed to open DB:", err)
	}
	defer db.Close()

	ctx := context.Background()
	imported, skipped := 0, 0
	for _, path := range matches {
		sessions, err := readSessions(path, *player)
		if err != nil {
			log.Printf("Error reading %s: %v", path, err)
			continue
		}
		for _, s := range sessions {
			err := db.RecordSession(ctx, s)
			switch {
			case errors.Is(err, store.ErrDuplicateSession):
				skipped++
			case err != nil:
				log.Printf("Error importing game %s: %v", s.ID, err)
			default:
				imported++
			}
		}
	}

	fmt.Printf("✅ Import complete! %d games added to %s, %d already present\n", imported, *dbPath, skipped)
}

func readSessions(path, player string) ([]store.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return collectSessions(f, player)
}

// collectSessions splits a recording into games at every start or reset and
// returns the ones that finished. Ids are stable so reimports are detected.
func collectSessions(r io.Reader, player string) ([]store.Session, error) {
	var (
		sessions []store.Session
		current  *store.Session
		games    int
	)
	err := game.ReadRecords(r, func(rec game.StepRecord) error {
		if rec.Cause == game.CauseStart || rec.Cause == game.CauseReset || current == nil {
			games++
			current = &store.Session{
				ID:        fmt.Sprintf("%s-%d", rec.SessionID, games),
				Player:    player,
				BoardSize: rec.State.BoardSize,
				StartedAt: rec.Time,
			}
		}
		if current.Status.Terminal() || !rec.State.Status.Terminal() {
			return nil
		}
		current.Score = rec.State.Score
		current.Steps = rec.State.Steps
		current.Status = rec.State.Status
		current.EndedAt = rec.Time
		sessions = append(sessions, *current)
		return nil
	})
	return sessions, err
}
