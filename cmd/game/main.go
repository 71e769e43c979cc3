package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/trace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "invaders: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.GetEnv("INVADERS_CONFIG", ""))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The terminal is ours while running; logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut)

	rec, err := trace.Open(config.GetEnv("INVADERS_TRACE", cfg.Trace.Path))
	if err != nil {
		return err
	}
	defer func() {
		if err := rec.Close(); err != nil {
			logger.Error("closing trace", "err", err)
		}
	}()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enabling raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	sessionID := uuid.NewString()
	logger = logger.With("session", sessionID)
	logger.Info("session started")

	err = loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Config:    cfg,
		Logger:    logger,
		Trace:     rec,
		SessionID: sessionID,
	})
	logger.Info("session ended", "err", err)
	return err
}
