package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trytobebee/candysnake/pkg/config"
	"github.com/trytobebee/candysnake/pkg/logging"
	"github.com/trytobebee/candysnake/pkg/server"
	"github.com/trytobebee/candysnake/pkg/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to an HCL settings file.")
	addr := flag.String("addr", "", "Listen address, overrides the config.")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		settings.Addr = *addr
	}

	logger := logging.New(settings.LogLevel, settings.LogFormat, os.Stderr)

	db, err := store.Open(settings.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &http.Server{
		Addr: settings.Addr,
		Handler: server.New(server.Options{
			BoardSize:    settings.BoardSize,
			MoveInterval: settings.MoveInterval(),
			Store:        db,
			Logger:       logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("🚀 Snake web server starting", "addr", settings.Addr, "board_size", settings.BoardSize)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}
