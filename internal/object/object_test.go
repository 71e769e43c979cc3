package object

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/formation"
)

const tick = time.Second / 60

type collector struct {
	objects []Object
}

func (c *collector) Spawn(obj Object) {
	c.objects = append(c.objects, obj)
}

func screen() Screen {
	return Screen{Width: 640, Height: 480, Ground: 460}
}

func drawContext(w, h int) DrawContext {
	return DrawContext{
		Canvas: draw.NewScaledCanvas(w, h, 640, 480),
		Writer: draw.NewChunkWriter(nil, 0, 0),
	}
}

func TestScreenClamp(t *testing.T) {
	s := screen()
	x, y := s.Clamp(-5, 500)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 460.0, y)

	x, y = (Screen{Width: 10, Height: 10}).Clamp(20, 20)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 10.0, y)
}

func TestCrosshairMovesAndClamps(t *testing.T) {
	c := NewCrosshair(5, 100, 6)
	ctx := UpdateContext{Delta: tick, Screen: screen(), Input: Input{Left: true, Down: true}}

	remove, err := c.Update(ctx)
	require.NoError(t, err)
	assert.False(t, remove)
	assert.Equal(t, 0.0, c.X)
	assert.Equal(t, 106.0, c.Y)

	ctx.Input = Input{Right: true, Up: true}
	_, _ = c.Update(ctx)
	assert.Equal(t, 6.0, c.X)
	assert.Equal(t, 100.0, c.Y)
}

func TestBombFallsToGround(t *testing.T) {
	b := NewBomb(100, 450)
	ctx := UpdateContext{Delta: tick, Screen: screen()}

	remove, err := b.Update(ctx)
	require.NoError(t, err)
	assert.False(t, remove)
	assert.InDelta(t, 453.0, b.Y, 1e-3)

	for range 3 {
		remove, _ = b.Update(ctx)
	}
	assert.True(t, remove)
}

func TestExplosionParticles(t *testing.T) {
	var c collector
	SpawnExplosion(50, 50, 12, 40, 0.5, &c)
	require.Len(t, c.objects, 12)

	SpawnExplosion(50, 50, 12, 40, 0.5, nil)

	ctx := UpdateContext{Delta: tick}
	alive := len(c.objects)
	for i := 0; i < 60 && alive > 0; i++ {
		alive = 0
		for _, obj := range c.objects {
			if remove, _ := obj.Update(ctx); !remove {
				alive++
			}
		}
	}
	assert.Zero(t, alive, "every particle expires within its lifetime")

	for _, obj := range c.objects {
		ReleaseObject(obj)
	}
}

func TestParticleFades(t *testing.T) {
	p := NewParticle(320, 240, 0, 0, 1)
	dc := drawContext(64, 24)

	require.NoError(t, p.Draw(dc))
	col, row := dc.Canvas.LogicalToTerminal(320, 240)
	assert.True(t, dc.Canvas.Pixel(col-1, (row-1)*2) || dc.Canvas.Pixel(col-1, (row-1)*2+1))

	dc.Canvas.Clear()
	p.Lifetime = 0.1
	require.NoError(t, p.Draw(dc))
	assert.False(t, dc.Canvas.Pixel(col-1, (row-1)*2))
	p.Release()
}

func TestLabel(t *testing.T) {
	l := NewLabel(320, 240, "ROW", 1)
	dc := drawContext(64, 24)

	require.NoError(t, l.Draw(dc))
	assert.Positive(t, dc.Writer.Len())

	// Blinks off just before it expires.
	l.Lifetime = 0.05
	dc = drawContext(64, 24)
	require.NoError(t, l.Draw(dc))
	assert.Zero(t, dc.Writer.Len())

	l.Lifetime = 0.04
	ctx := UpdateContext{Delta: tick}
	remove, _ := l.Update(ctx)
	assert.False(t, remove)
	assert.Less(t, l.Y, 240.0)
	remove, _ = l.Update(ctx)
	remove, _ = l.Update(ctx)
	assert.True(t, remove)
}

func TestShouldRenderBlink(t *testing.T) {
	assert.True(t, ShouldRenderBlink(0, 10))
	assert.True(t, ShouldRenderBlink(0.15, 10))
	assert.False(t, ShouldRenderBlink(0.25, 10))
}

func TestFormationView(t *testing.T) {
	cfg := config.Default().Formation
	f, err := formation.New(cfg)
	require.NoError(t, err)
	v := NewFormationView(f)

	dc := drawContext(160, 60)
	require.NoError(t, v.Draw(dc))

	lit := 0
	for y := 0; y < 120; y++ {
		for x := 0; x < 160; x++ {
			if dc.Canvas.Pixel(x, y) {
				lit++
			}
		}
	}
	assert.Positive(t, lit)

	assert.Equal(t, 0, v.Frame())
	v.Step()
	assert.Equal(t, 1, v.Frame())

	cell, _, ok := f.Fire(fixedRand{})
	require.True(t, ok)
	v.Mark(cell, 2)
	got, ok := v.Marked()
	require.True(t, ok)
	assert.Equal(t, cell, got)

	_, _ = v.Update(UpdateContext{})
	_, ok = v.Marked()
	assert.True(t, ok)
	_, _ = v.Update(UpdateContext{})
	_, ok = v.Marked()
	assert.False(t, ok, "highlight expired")

	v.Mark(cell, 5)
	f.Kill(cell)
	_, ok = v.Marked()
	assert.False(t, ok, "dead enemies are not highlighted")
}

type fixedRand struct{}

func (fixedRand) Intn(int) int { return 0 }
