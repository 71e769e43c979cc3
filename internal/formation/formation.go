// Package formation drives a grid of enemies: staggered row-by-row
// marching, dropping and reversing at the edges, picking bombers, and
// removing enemies with the header bookkeeping that goes with it.
package formation

import (
	"fmt"
	"iter"
	"math"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/torus"
)

// Enemy is the payload stored in each grid cell.
type Enemy struct {
	X, Y, W, H float64
	Row, Col   int // position in the formation as built
}

// Box returns the enemy's bounding box.
func (e *Enemy) Box() physics.Box {
	return physics.Box{X: e.X, Y: e.Y, W: e.W, H: e.H}
}

// Phase is the state of the movement state machine.
type Phase int

const (
	PhaseAdvancing  Phase = iota // one row shifts per move
	PhaseDescending              // the whole formation just dropped and reversed
)

func (p Phase) String() string {
	switch p {
	case PhaseAdvancing:
		return "advancing"
	case PhaseDescending:
		return "descending"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Rand is the subset of *rand.Rand used for bomber selection.
type Rand interface {
	Intn(n int) int
}

// Formation owns the enemy grid and its movement state.
type Formation struct {
	cfg   config.FormationConfig
	grid  *torus.Grid[Enemy]
	cycle *torus.RowCycle

	direction int // +1 right, -1 left
	phase     Phase
	tick      int

	// Intervals are recomputed from the live count every tick; the
	// counters run down to the next move and the next bomb.
	moveTicks int
	fireTicks int
	toMove    int
	toFire    int

	observers []func(MoveEvent)
}

// Option configures a Formation.
type Option func(*Formation)

// WithObserver registers fn to be called after every move.
func WithObserver(fn func(MoveEvent)) Option {
	return func(f *Formation) {
		if fn != nil {
			f.observers = append(f.observers, fn)
		}
	}
}

// New builds a formation of cfg.Rows x cfg.Cols enemies laid out from
// (StartX, StartY), marching right.
func New(cfg config.FormationConfig, opts ...Option) (*Formation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid := torus.Build(cfg.Rows, cfg.Cols, func(row, col int) Enemy {
		return Enemy{
			X:   cfg.StartX + float64(col)*cfg.StepX,
			Y:   cfg.StartY + float64(row)*cfg.StepY,
			W:   cfg.EnemyWidth,
			H:   cfg.EnemyHeight,
			Row: row,
			Col: col,
		}
	})

	f := &Formation{
		cfg:       cfg,
		grid:      grid,
		cycle:     grid.NewRowCycle(),
		direction: 1,
		phase:     PhaseAdvancing,
		moveTicks: cfg.BaseMoveTicks,
		fireTicks: cfg.BaseFireTicks,
		toMove:    cfg.BaseMoveTicks,
		toFire:    cfg.BaseFireTicks,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Grid exposes the underlying torus for read access.
func (f *Formation) Grid() *torus.Grid[Enemy] {
	return f.grid
}

// Enemies yields every live enemy.
func (f *Formation) Enemies() iter.Seq2[torus.Cell, *Enemy] {
	return f.grid.All()
}

// Live returns the number of enemies left.
func (f *Formation) Live() int {
	return f.grid.Live()
}

// Direction returns +1 when marching right, -1 when marching left.
func (f *Formation) Direction() int {
	return f.direction
}

// Phase returns the current state of the movement state machine.
func (f *Formation) Phase() Phase {
	return f.phase
}

// Shape returns the number of live rows and columns.
func (f *Formation) Shape() (rows, cols int) {
	for range f.grid.Rows() {
		rows++
	}
	for range f.grid.Cols() {
		cols++
	}
	return rows, cols
}

// Intervals returns the current move and fire intervals in ticks.
func (f *Formation) Intervals() (move, fire int) {
	return f.moveTicks, f.fireTicks
}

// Tick is the outcome of one Update.
type Tick struct {
	Moved     bool
	Move      MoveEvent
	FireReady bool // the bomb timer ran out; call Fire to drop one
}

// Update advances the formation by one fixed tick. The fewer enemies are
// left, the shorter the move and fire intervals get. An exhausted formation
// does nothing.
func (f *Formation) Update() Tick {
	live := f.grid.Live()
	if live == 0 {
		return Tick{}
	}

	f.tick++
	f.toMove--
	f.toFire--
	f.moveTicks = int(math.Floor(float64(live) * f.cfg.MoveTicksPerEnemy))
	f.fireTicks = int(float64(live) * f.cfg.FireTicksPerEnemy)

	var t Tick
	if f.toMove <= 0 {
		t.Move = f.Move()
		t.Moved = true
	}
	t.FireReady = f.toFire <= 0
	return t
}

// Fire picks a bomber: the bottom enemy of a random live column. It resets
// the bomb timer. ok is false when no enemies are left.
func (f *Formation) Fire(rng Rand) (cell torus.Cell, bomber *Enemy, ok bool) {
	var cols []torus.Col
	for c := range f.grid.Cols() {
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return 0, nil, false
	}

	col := cols[rng.Intn(len(cols))]
	cell, ok = f.grid.Last(col)
	if !ok {
		return 0, nil, false
	}
	f.toFire = f.fireTicks
	return cell, f.grid.Value(cell), true
}

// KillResult describes the aftermath of removing one enemy.
type KillResult struct {
	Enemy      Enemy
	RowRemoved bool
	ColRemoved bool
	Live       int
}

// Kill removes the enemy in cell and drops its row and column from the
// formation once they are empty. The cell must still be live.
func (f *Formation) Kill(cell torus.Cell) KillResult {
	row, col := f.grid.RowOf(cell), f.grid.ColOf(cell)

	// Both counts are settled by DeleteCell before either header is looked at.
	rowCount, colCount := f.grid.DeleteCell(cell)

	res := KillResult{Enemy: *f.grid.Value(cell)}
	if colCount == 0 {
		f.grid.DeleteHeader(col)
		res.ColRemoved = true
	}
	if rowCount == 0 {
		f.grid.DeleteHeader(row)
		res.RowRemoved = true
	}
	res.Live = f.grid.Live()
	return res
}

// HitTest returns the first live enemy whose box contains (x, y).
func (f *Formation) HitTest(x, y float64) (torus.Cell, bool) {
	for cell, e := range f.grid.All() {
		if e.Box().Contains(x, y) {
			return cell, true
		}
	}
	return 0, false
}

// Bottom returns the lowest enemy edge of the bottom row.
func (f *Formation) Bottom() (float64, bool) {
	row, ok := f.grid.LastRow()
	if !ok {
		return 0, false
	}
	bottom, found := math.Inf(-1), false
	for _, e := range f.grid.Cells(row) {
		bottom = max(bottom, e.Box().Bottom())
		found = true
	}
	return bottom, found
}
