package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/torus"
	"github.com/tomz197/invaders/internal/trace"
)

type firstRand struct{}

func (firstRand) Intn(int) int { return 0 }

func termSize() (int, int, error) { return 80, 24, nil }

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Formation.Rows = 2
	cfg.Formation.Cols = 3
	return cfg
}

// newTestSession returns a session whose input never ends.
func newTestSession(t *testing.T, cfg *config.Config, opts Options) (*Session, *bytes.Buffer) {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	var out bytes.Buffer
	opts.Config = cfg
	opts.TermSizeFunc = termSize
	opts.Rand = firstRand{}
	s, err := NewSession(bufio.NewReader(pr), &out, opts)
	require.NoError(t, err)
	return s, &out
}

// press feeds one frame with the given keys followed by a frame with none,
// so the next press registers as a new key down.
func press(s *Session, in input.Input) {
	s.handleInput(in)
	s.handleInput(input.Input{})
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Screen.TicksPerSecond = 0
	_, err := NewSession(strings.NewReader(""), io.Discard, Options{Config: cfg})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestStartWave(t *testing.T) {
	s, _ := newTestSession(t, testConfig(), Options{})
	st := s.State()
	assert.Equal(t, GameStateStart, st.GameState)

	press(s, input.Input{Enter: true})

	assert.Equal(t, GameStateRunning, st.GameState)
	assert.Equal(t, 1, st.Wave)
	assert.Equal(t, 6, st.Formation.Live())
	assert.Len(t, st.Objects, 2)
}

func TestFireRemovesEnemyUnderCrosshair(t *testing.T) {
	s, _ := newTestSession(t, testConfig(), Options{})
	st := s.State()
	press(s, input.Input{Enter: true})

	// Enemy (0,0) sits at (10,120) with a 40x25 box.
	st.Crosshair.X, st.Crosshair.Y = 30, 130

	s.handleInput(input.Input{Fire: true})
	assert.Equal(t, 5, st.Formation.Live())
	assert.Equal(t, 1, st.Kills)
	assert.Len(t, st.toSpawn, s.cfg.Viewer.ExplosionSize)

	s.handleInput(input.Input{Fire: true})
	assert.Equal(t, 5, st.Formation.Live(), "holding fire removes only once")

	s.handleInput(input.Input{})
	press(s, input.Input{Fire: true})
	assert.Equal(t, 5, st.Formation.Live(), "nothing left under the crosshair")

	require.NoError(t, s.tick())
	assert.Empty(t, st.toSpawn)
}

func TestPauseFreezesFormation(t *testing.T) {
	cfg := testConfig()
	cfg.Formation.BaseMoveTicks = 1
	s, _ := newTestSession(t, cfg, Options{})
	st := s.State()
	press(s, input.Input{Enter: true})

	press(s, input.Input{Pause: true})
	require.Equal(t, GameStatePaused, st.GameState)

	var before []float64
	for _, e := range st.Formation.Enemies() {
		before = append(before, e.X)
	}
	for range 10 {
		require.NoError(t, s.tick())
	}
	var after []float64
	for _, e := range st.Formation.Enemies() {
		after = append(after, e.X)
	}
	assert.Equal(t, before, after)

	press(s, input.Input{Pause: true})
	assert.Equal(t, GameStateRunning, st.GameState)
	require.NoError(t, s.tick())
	first := st.Formation.Grid().Value(firstCell(st))
	assert.Equal(t, s.cfg.Formation.StartX+s.cfg.Formation.ShiftX, first.X, "top row moved after resuming")
}

func firstCell(st *State) torus.Cell {
	for cell := range st.Formation.Enemies() {
		return cell
	}
	return 0
}

func TestClearedThenNextWave(t *testing.T) {
	s, _ := newTestSession(t, testConfig(), Options{})
	st := s.State()
	press(s, input.Input{Enter: true})

	for cell := range st.Formation.Enemies() {
		s.killEnemy(cell)
	}
	require.NoError(t, s.tick())
	assert.Equal(t, GameStateCleared, st.GameState)

	press(s, input.Input{Fire: true})
	assert.Equal(t, GameStateRunning, st.GameState)
	assert.Equal(t, 2, st.Wave)
	assert.Zero(t, st.Kills)
	assert.Equal(t, 6, st.Formation.Live())

	e := st.Formation.Grid().Value(firstCell(st))
	assert.Equal(t, s.cfg.Formation.StartY+s.cfg.Formation.DropY, e.Y, "later waves start lower")
}

func TestInvadedRestarts(t *testing.T) {
	cfg := testConfig()
	cfg.Screen.InvasionLine = 100
	s, _ := newTestSession(t, cfg, Options{})
	st := s.State()
	press(s, input.Input{Enter: true})

	require.NoError(t, s.tick())
	assert.Equal(t, GameStateInvaded, st.GameState)

	press(s, input.Input{Enter: true})
	assert.Equal(t, GameStateRunning, st.GameState)
	assert.Equal(t, 1, st.Wave)
}

func TestAutoKill(t *testing.T) {
	cfg := testConfig()
	cfg.Viewer.AutoKillTicks = 2
	s, _ := newTestSession(t, cfg, Options{})
	st := s.State()
	require.True(t, st.AutoKill)
	press(s, input.Input{Enter: true})

	require.NoError(t, s.tick())
	assert.Equal(t, 6, st.Formation.Live())
	require.NoError(t, s.tick())
	assert.Equal(t, 5, st.Formation.Live())

	press(s, input.Input{Auto: true})
	assert.False(t, st.AutoKill)
	for range 4 {
		require.NoError(t, s.tick())
	}
	assert.Equal(t, 5, st.Formation.Live())
}

func TestBombDropped(t *testing.T) {
	cfg := testConfig()
	cfg.Formation.BaseFireTicks = 1
	s, _ := newTestSession(t, cfg, Options{})
	st := s.State()
	press(s, input.Input{Enter: true})

	require.NoError(t, s.tick())

	bombs := 0
	for _, obj := range st.Objects {
		if _, ok := obj.(*object.Bomb); ok {
			bombs++
		}
	}
	assert.Equal(t, 1, bombs)
	cell, ok := st.View.Marked()
	require.True(t, ok)
	e := st.Formation.Grid().Value(cell)
	assert.Equal(t, 1, e.Row, "bombs come from the bottom row")
	assert.Equal(t, 0, e.Col)
}

func TestQuit(t *testing.T) {
	s, _ := newTestSession(t, testConfig(), Options{})
	s.handleInput(input.Input{Quit: true})
	assert.False(t, s.State().Running)
}

func TestInactivity(t *testing.T) {
	cfg := testConfig()
	cfg.Session.InactivityWarn = 1
	cfg.Session.InactivityDisconnect = 10
	s, _ := newTestSession(t, cfg, Options{})
	st := s.State()

	now := time.Now()
	s.lastInput = now.Add(-2 * time.Second)
	s.processInput(now)
	assert.True(t, st.isInactive)
	assert.True(t, st.Running)

	s.lastInput = now.Add(-11 * time.Second)
	s.processInput(now)
	assert.False(t, st.Running)
}

func TestDrawFrame(t *testing.T) {
	s, out := newTestSession(t, testConfig(), Options{})
	require.NoError(t, s.drawFrame())
	assert.Contains(t, out.String(), "Controls")

	press(s, input.Input{Enter: true})
	out.Reset()
	require.NoError(t, s.drawFrame())
	assert.Contains(t, out.String(), "Wave: 1")
	assert.Contains(t, out.String(), "Live: 6")
}

func TestTraceRecordsMoves(t *testing.T) {
	cfg := testConfig()
	cfg.Formation.BaseMoveTicks = 1
	var tb bytes.Buffer
	s, _ := newTestSession(t, cfg, Options{Trace: trace.NewRecorder(&tb), SessionID: "abc"})
	press(s, input.Input{Enter: true})

	require.NoError(t, s.tick())

	lines := strings.Split(strings.TrimSpace(tb.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "abc,1,0,shift,1,advancing,6,"))
}

func TestRunStopsOnCancel(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()
	err := Run(ctx, bufio.NewReader(pr), &out, Options{Config: testConfig(), TermSizeFunc: termSize})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\033[?25l")
	assert.Contains(t, out.String(), "\033[?25h")
}

func TestRunStopsAtEndOfInput(t *testing.T) {
	for name, in := range map[string]string{"eof": "", "quit": "q"} {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- Run(ctx, strings.NewReader(in), io.Discard, Options{Config: testConfig(), TermSizeFunc: termSize})
			}()
			select {
			case err := <-done:
				require.NoError(t, err)
			case <-time.After(3 * time.Second):
				t.Fatal("session did not end")
			}
		})
	}
}

func TestGameStateString(t *testing.T) {
	assert.Equal(t, "running", GameStateRunning.String())
	assert.Equal(t, "invaded", GameStateInvaded.String())
	assert.Equal(t, "GameState(9)", GameState(9).String())
}
