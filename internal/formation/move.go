package formation

import (
	"fmt"
	"math"
)

// MoveKind says what a move did.
type MoveKind int

const (
	MoveNone  MoveKind = iota // nothing left to move
	MoveShift                 // one row shifted horizontally
	MoveDrop                  // the formation dropped and reversed
)

func (k MoveKind) String() string {
	switch k {
	case MoveNone:
		return "none"
	case MoveShift:
		return "shift"
	case MoveDrop:
		return "drop"
	}
	return fmt.Sprintf("MoveKind(%d)", int(k))
}

// MoveEvent records one scheduled move.
type MoveEvent struct {
	Tick      int
	Kind      MoveKind
	Row       int // construction index of the row taken from the cycle, -1 if none
	Direction int // direction after the move
	Phase     Phase
	Live      int
	DX, DY    float64
}

// Move performs one scheduled move. The next row is taken from the row
// cycle; if the formation has reached the edge it is heading for and that
// row is the bottom one, every enemy drops, the direction flips and a fresh
// cycle starts from the top. Otherwise only that row shifts sideways.
func (f *Formation) Move() MoveEvent {
	if f.phase == PhaseDescending {
		f.phase = PhaseAdvancing
	}

	ev := MoveEvent{Tick: f.tick, Row: -1}
	row, ok := f.cycle.Next()
	if !ok {
		ev.Kind = MoveNone
		ev.Direction = f.direction
		ev.Phase = f.phase
		return ev
	}
	ev.Row = f.grid.Index(row)

	last, _ := f.grid.LastRow()
	if f.edgeReached() && row == last {
		for _, e := range f.grid.All() {
			e.Y += f.cfg.DropY
		}
		f.direction = -f.direction
		f.cycle = f.grid.NewRowCycle()
		f.phase = PhaseDescending
		ev.Kind = MoveDrop
		ev.DY = f.cfg.DropY
	} else {
		dx := f.cfg.ShiftX * float64(f.direction)
		for _, e := range f.grid.Cells(row) {
			e.X += dx
		}
		ev.Kind = MoveShift
		ev.DX = dx
	}

	f.toMove = f.moveTicks
	ev.Direction = f.direction
	ev.Phase = f.phase
	ev.Live = f.grid.Live()
	for _, fn := range f.observers {
		fn(ev)
	}
	return ev
}

// edgeReached reports whether the formation touches the boundary in its
// direction of travel.
func (f *Formation) edgeReached() bool {
	if f.direction > 0 {
		x, ok := f.extentX(true)
		return ok && x >= f.cfg.MaxX
	}
	x, ok := f.extentX(false)
	return ok && x <= f.cfg.MinX
}

// extentX returns the rightmost x of the last column or the leftmost x of
// the first column. Rows move one at a time, so cells in a column can be
// out of line by a step.
func (f *Formation) extentX(right bool) (float64, bool) {
	var h = f.grid.FirstCol
	if right {
		h = f.grid.LastCol
	}
	col, ok := h()
	if !ok {
		return 0, false
	}

	x := math.Inf(1)
	if right {
		x = math.Inf(-1)
	}
	found := false
	for _, e := range f.grid.Cells(col) {
		if right {
			x = max(x, e.X)
		} else {
			x = min(x, e.X)
		}
		found = true
	}
	return x, found
}
