// Package loop runs the formation viewer: input, fixed-timestep updates
// and drawing for one terminal.
package loop

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/formation"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/trace"
)

// maxCatchUpTicks bounds the ticks run in one frame after a stall.
const maxCatchUpTicks = 5

// Options configures a session.
type Options struct {
	Config       *config.Config    // defaults when nil
	TermSizeFunc draw.TermSizeFunc // size of the local terminal when nil
	Logger       *log.Logger       // discards when nil
	Trace        *trace.Recorder   // nil disables tracing
	SessionID    string            // tags trace records
	Rand         formation.Rand    // picks bombers; seeded from the clock when nil
}

// Session is one viewer bound to a terminal.
type Session struct {
	cfg          *config.Config
	logger       *log.Logger
	trace        *trace.Recorder
	sessionID    string
	rng          formation.Rand
	state        *State
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	termSizeFunc draw.TermSizeFunc
	tickDuration time.Duration
}

// Run plays a session on r and w until the user quits, the input ends or
// ctx is done.
func Run(ctx context.Context, r io.ByteReader, w io.Writer, opts Options) error {
	s, err := NewSession(r, w, opts)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// NewSession prepares a session. Reading from r starts immediately.
func NewSession(r io.ByteReader, w io.Writer, opts Options) (*Session, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		cfg:          cfg,
		logger:       logger,
		trace:        opts.Trace,
		sessionID:    opts.SessionID,
		rng:          rng,
		state:        NewState(cfg),
		writer:       w,
		lastInput:    time.Now(),
		termSizeFunc: termSizeFunc,
		tickDuration: time.Second / time.Duration(cfg.Screen.TicksPerSecond),
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := s.fit(termWidth, termHeight)
	s.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, float64(cfg.Screen.Width), float64(cfg.Screen.Height))
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.chunkWriter = draw.NewChunkWriter(w, offsetCol, offsetRow)
	s.inputStream = input.StartStream(r)
	return s, nil
}

// State exposes the session state.
func (s *Session) State() *State {
	return s.state
}

// Run drives the session: input once per frame, as many fixed ticks as
// the elapsed time calls for, then one frame drawn.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	draw.ClearScreen(s.writer)

	frameTime := time.Second / time.Duration(s.cfg.Screen.FramesPerSec)
	maxBacklog := maxCatchUpTicks * s.tickDuration

	var backlog time.Duration
	lastTime := time.Now()

	for s.state.Running {
		if err := ctx.Err(); err != nil {
			s.logger.Debug("session context done", "err", err)
			break
		}

		frameStart := time.Now()
		backlog = min(backlog+frameStart.Sub(lastTime), maxBacklog)
		lastTime = frameStart

		s.processInput(frameStart)
		s.updateScreen()

		for backlog >= s.tickDuration && s.state.Running {
			if err := s.tick(); err != nil {
				return err
			}
			backlog -= s.tickDuration
		}

		if err := s.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			select {
			case <-ctx.Done():
			case <-time.After(frameTime - elapsed):
			}
		}
	}

	draw.ClearScreen(s.writer)
	return nil
}

// processInput reads this frame's keys and tracks inactivity.
func (s *Session) processInput(now time.Time) {
	in := input.ReadInput(s.inputStream)

	sess := s.cfg.Session
	idle := now.Sub(s.lastInput).Seconds()
	switch {
	case len(in.Pressed) > 0:
		s.lastInput = now
		s.state.isInactive = false
	case sess.InactivityDisconnect > 0 && idle > sess.InactivityDisconnect:
		s.logger.Info("disconnecting inactive session", "idle", idle)
		s.state.Running = false
	case sess.InactivityWarn > 0 && idle > sess.InactivityWarn:
		s.state.isInactive = true
	}

	if s.inputStream.Closed() {
		s.state.Running = false
	}

	s.handleInput(in)
}

// updateScreen follows terminal resizes, clamped to the maximum render
// size. A real change clears the terminal so nothing stale is left outside
// the new render area.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := s.fit(termWidth, termHeight)

	if renderWidth != s.canvas.TerminalWidth() || renderHeight != s.canvas.TerminalHeight() ||
		offsetCol != s.canvas.OffsetCol() || offsetRow != s.canvas.OffsetRow() {
		s.chunkWriter.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
	}

	s.canvas.Resize(renderWidth, renderHeight)
	s.canvas.SetOffset(offsetCol, offsetRow)
	s.chunkWriter.SetOffset(offsetCol, offsetRow)
}

func (s *Session) fit(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	return draw.FitTerminal(termWidth, termHeight, s.cfg.Screen.MaxTermWidth, s.cfg.Screen.MaxTermHeight)
}
