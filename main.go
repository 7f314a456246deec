package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/danielhkuo/memojo/auth"
	"github.com/danielhkuo/memojo/cliparse"
	"github.com/danielhkuo/memojo/models"
	"github.com/danielhkuo/memojo/router"
	"github.com/danielhkuo/memojo/store"
)

// shutdownTimeout bounds how long in-flight requests may run after a signal
const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger, err := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("Error configuring logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	ctx := context.Background()

	// Store and auth gate are only needed when the API is mounted
	var s store.Store
	var gate *auth.Gate
	if cfg.ServesAPI() {
		s, err = openStore(ctx, cfg)
		if err != nil {
			slog.Error("store setup failed", "store", cfg.StoreType, "error", err)
			os.Exit(1)
		}
		defer s.Close()

		gate, err = auth.NewGate(cfg)
		if err != nil {
			slog.Error("auth setup failed", "error", err)
			os.Exit(1)
		}
	}

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(s, gate, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "mode", cfg.Mode, "static_dir", cfg.StaticDir)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
		return
	}
	<-done
	slog.Info("Server closed")
}

// openStore opens the configured backend and writes the initial document
// when it is empty
func openStore(ctx context.Context, cfg cliparse.Config) (store.Store, error) {
	s, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	initial := models.DefaultDatabase()
	if cfg.Mode == cliparse.ModeDemo {
		initial = models.DemoDatabase()
	}

	seeded, err := s.Seed(ctx, initial)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}
	if seeded {
		slog.Info("Store initialized with default structure", "store", cfg.StoreType)
	}
	return s, nil
}

// newLogger builds the process logger for the given level and format
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q (use text or json)", format)
}
