// Package object holds the drawable pieces of the viewer: the formation
// itself, the crosshair, and short-lived effects.
package object

import (
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// Input is an alias for the input package's Input type.
type Input = input.Input

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration // one fixed tick
	Input   Input
	Screen  Screen
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // half-block canvas in logical coordinates
	Writer *draw.ChunkWriter // text overlay for the current frame
}

// Screen is the logical playfield.
type Screen struct {
	Width  float64
	Height float64
	Ground float64
}

// Clamp keeps (x, y) inside the playfield, above the ground line.
func (s Screen) Clamp(x, y float64) (float64, float64) {
	bottom := s.Height
	if s.Ground > 0 {
		bottom = s.Ground
	}
	return min(max(x, 0), s.Width), min(max(y, 0), bottom)
}

// Object is a drawable and updatable entity.
type Object interface {
	// Update advances the object by one tick. Returns true if the object
	// should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink reports whether something blinking at frequency Hz for
// the remaining time should be drawn this frame. It is always drawn once
// the time has run out.
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}
