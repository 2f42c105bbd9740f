package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"time"

	"github.com/trytobebee/candysnake/pkg/config"
	"github.com/trytobebee/candysnake/pkg/game"
	"github.com/trytobebee/candysnake/pkg/renderer"
)

func main() {
	recordDir := flag.String("dir", config.RecordsDir, "Directory holding recordings.")
	file := flag.String("file", "", "Recording to play; lists the directory when empty.")
	interval := flag.Duration("interval", config.ReplayInterval, "Delay between frames.")
	flag.Parse()

	if *file == "" {
		if err := listRecords(*recordDir); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := play(ctx, filepath.Join(*recordDir, filepath.Base(*file)), *interval); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

func listRecords(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "game_*.jsonl"))
	if err != nil {
		return err
	}
	type recordFile struct {
		name string
		size int64
		time time.Time
	}
	var records []recordFile
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		records = append(records, recordFile{name: filepath.Base(m), size: info.Size(), time: info.ModTime()})
	}

	// Sort by time desc
	sort.Slice(records, func(i, j int) bool {
		return records[i].time.After(records[j].time)
	})

	fmt.Println("📼 Replay Library")
	if len(records) == 0 {
		fmt.Printf("  No recordings found in %s\n", dir)
		return nil
	}
	for _, r := range records {
		fmt.Printf("  %s  %8d bytes  %s\n", r.name, r.size, r.time.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func play(ctx context.Context, path string, interval time.Duration) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open record: %w", err)
	}
	defer f.Close()

	render := renderer.NewTerminalRenderer(os.Stdout)
	render.HideCursor()
	defer render.ShowCursor()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	return game.ReadRecords(f, func(rec game.StepRecord) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		render.SetFooter(fmt.Sprintf("  📼 %s  step %d  (%s)\n", rec.SessionID, rec.StepID, rec.Cause))
		render.Render(rec.State)
		return nil
	})
}
