package object

import (
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/formation"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/torus"
)

// FormationView draws a formation. The formation itself is advanced by the
// loop on its own schedule; the view only tracks animation and highlights.
type FormationView struct {
	F *formation.Formation

	frame     int
	marked    torus.Cell
	markTicks int
}

// NewFormationView wraps f.
func NewFormationView(f *formation.Formation) *FormationView {
	return &FormationView{F: f}
}

// Step flips the animation frame; call it when the formation moves.
func (v *FormationView) Step() {
	v.frame ^= 1
}

// Frame returns the current animation frame.
func (v *FormationView) Frame() int {
	return v.frame
}

// Mark highlights the enemy in cell for the given number of ticks.
func (v *FormationView) Mark(cell torus.Cell, ticks int) {
	v.marked = cell
	v.markTicks = ticks
}

// Marked returns the highlighted enemy, if it is still alive.
func (v *FormationView) Marked() (torus.Cell, bool) {
	if v.markTicks <= 0 || !v.F.Grid().Linked(v.marked) {
		return 0, false
	}
	return v.marked, true
}

// Update counts the highlight down. The view is never removed.
func (v *FormationView) Update(ctx UpdateContext) (bool, error) {
	if v.markTicks > 0 {
		v.markTicks--
	}
	return false, nil
}

// Draw renders every live enemy on the canvas, with a box around the
// highlighted one.
func (v *FormationView) Draw(ctx DrawContext) error {
	view := physics.Box{W: ctx.Canvas.LogicalWidth(), H: ctx.Canvas.LogicalHeight()}
	for _, e := range v.F.Enemies() {
		if !physics.Overlaps(view, e.Box()) {
			continue
		}
		ctx.Canvas.DrawSprite(draw.InvaderSprite(e.Row, v.frame), e.X, e.Y, e.W, e.H)
	}
	if cell, ok := v.Marked(); ok {
		e := v.F.Grid().Value(cell)
		ctx.Canvas.StrokeRect(e.X-2, e.Y-2, e.W+4, e.H+4)
	}
	return nil
}
