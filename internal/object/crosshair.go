package object

import "github.com/tomz197/invaders/internal/draw"

// crosshairArm is the half-length of each crosshair line.
const crosshairArm = 8.0

// Crosshair is the pointer used to pick enemies for removal.
type Crosshair struct {
	X, Y  float64
	Speed float64 // logical units per tick
}

// NewCrosshair places a crosshair at (x, y).
func NewCrosshair(x, y, speed float64) *Crosshair {
	return &Crosshair{X: x, Y: y, Speed: speed}
}

// Update moves the crosshair with the arrow keys, clamped to the playfield.
func (c *Crosshair) Update(ctx UpdateContext) (bool, error) {
	in := ctx.Input
	if in.Left {
		c.X -= c.Speed
	}
	if in.Right {
		c.X += c.Speed
	}
	if in.Up {
		c.Y -= c.Speed
	}
	if in.Down {
		c.Y += c.Speed
	}
	c.X, c.Y = ctx.Screen.Clamp(c.X, c.Y)
	return false, nil
}

// Draw renders a plus sign with an open center.
func (c *Crosshair) Draw(ctx DrawContext) error {
	gap := crosshairArm / 3
	cv := ctx.Canvas
	cv.DrawLine(draw.Point{X: c.X - crosshairArm, Y: c.Y}, draw.Point{X: c.X - gap, Y: c.Y})
	cv.DrawLine(draw.Point{X: c.X + gap, Y: c.Y}, draw.Point{X: c.X + crosshairArm, Y: c.Y})
	cv.DrawLine(draw.Point{X: c.X, Y: c.Y - crosshairArm}, draw.Point{X: c.X, Y: c.Y - gap})
	cv.DrawLine(draw.Point{X: c.X, Y: c.Y + gap}, draw.Point{X: c.X, Y: c.Y + crosshairArm})
	return nil
}
