package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/trytobebee/candysnake/pkg/config"
	"github.com/trytobebee/candysnake/pkg/game"
	"github.com/trytobebee/candysnake/pkg/input"
	"github.com/trytobebee/candysnake/pkg/logging"
	"github.com/trytobebee/candysnake/pkg/renderer"
	"github.com/trytobebee/candysnake/pkg/store"
)

var errQuit = errors.New("quit")

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("\n  Thanks for playing! 👋")
}

func run() error {
	configPath := flag.String("config", "", "Path to an HCL settings file.")
	boardSize := flag.Int("size", 0, "Board side length, overrides the config.")
	auto := flag.Bool("auto", false, "Start with the autopilot on.")
	record := flag.Bool("record", false, "Record every step to a JSONL file.")
	seed := flag.Uint64("seed", 0, "Seed for candy placement, 0 picks one.")
	logFile := flag.String("log-file", "snake.log", "Log destination; the terminal is busy drawing the board.")
	player := flag.String("player", os.Getenv("USER"), "Name stored with finished games.")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *boardSize > 0 {
		settings.BoardSize = *boardSize
	}
	if *record {
		settings.Record = true
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	logOut, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logOut.Close()
	logger := logging.New(settings.LogLevel, settings.LogFormat, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	var gameOpts []game.Option
	if *seed != 0 {
		gameOpts = append(gameOpts, game.WithSeed(*seed))
	}
	g, err := game.NewGame(settings.BoardSize, gameOpts...)
	if err != nil {
		return err
	}

	render := renderer.NewTerminalRenderer(os.Stdout)
	loopOpts := []game.LoopOption{
		game.WithInterval(settings.MoveInterval()),
		game.WithLogger(logger),
		game.WithController(game.Autopilot{}),
		game.WithAutopilot(*auto),
		game.WithObserver(render.Observe),
	}

	db, err := store.Open(settings.DBPath)
	if err != nil {
		logger.Warn("scoreboard disabled", "error", err)
	} else {
		defer db.Close()
		tracker := store.NewTracker(ctx, db, *player, nil)
		loopOpts = append(loopOpts, game.WithObserver(tracker.Observe))
	}

	if settings.Record {
		rec, err := game.NewRecorder(settings.RecordsDir, uuid.NewString(), logger)
		if err != nil {
			return err
		}
		defer rec.Close()
		logger.Info("recording", "path", rec.Path())
		loopOpts = append(loopOpts, game.WithObserver(rec.Observe))
	}

	inputHandler := input.NewKeyboardHandler()
	if err := inputHandler.Start(); err != nil {
		return fmt.Errorf("open keyboard: %w", err)
	}
	defer inputHandler.Stop()

	render.HideCursor()
	defer render.ShowCursor()

	loop := game.NewLoop(g, loopOpts...)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return loop.Run(ctx)
	})
	eg.Go(func() error {
		return readInput(ctx, loop, inputHandler.GetInputChan(), *auto)
	})

	err = eg.Wait()
	if db != nil {
		if best, berr := db.BestScore(context.Background(), settings.BoardSize); berr == nil {
			fmt.Printf("\n  Best score on %dx%d: %03d\n", settings.BoardSize, settings.BoardSize, best)
		}
	}
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readInput forwards key presses to the loop until the player quits.
func readInput(ctx context.Context, loop *game.Loop, keys <-chan input.KeyInput, auto bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case key, ok := <-keys:
			if !ok || input.IsQuit(key) {
				return errQuit
			}

			var err error
			switch {
			case input.IsRestart(key):
				err = loop.Restart(ctx)
			case input.IsAutopilot(key):
				auto = !auto
				err = loop.SetAutopilot(ctx, auto)
			default:
				if dir, isValid := input.ParseDirection(key); isValid {
					err = loop.ChangeDirection(ctx, dir)
				}
			}
			if err != nil {
				return err
			}
		}
	}
}
