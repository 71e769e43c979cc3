package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaledSetFloat(t *testing.T) {
	// 10x5 terminal = 10x10 sub-pixels over a 100x100 logical space.
	c := NewScaledCanvas(10, 5, 100, 100)

	c.SetFloat(50, 50)
	assert.True(t, c.Pixel(5, 5))
	c.SetFloat(1000, 1000)
	c.SetFloat(-1, -1)

	c.Clear()
	assert.False(t, c.Pixel(5, 5))
}

func TestFillRect(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.FillRect(2, 2, 3, 2)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := x >= 2 && x < 5 && y >= 2 && y < 4
			assert.Equal(t, want, c.Pixel(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestFillRectTinyStillVisible(t *testing.T) {
	c := NewScaledCanvas(10, 5, 1000, 1000)
	c.FillRect(500, 500, 1, 1)
	assert.True(t, c.Pixel(5, 5))
}

func TestDrawLine(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.DrawLine(Point{0, 0}, Point{9, 9})
	for i := 0; i < 10; i++ {
		assert.True(t, c.Pixel(i, i))
	}
	assert.False(t, c.Pixel(0, 9))
}

func TestDrawSprite(t *testing.T) {
	s := ParseSprite(
		"#.",
		".#",
	)
	require.Equal(t, 2, s.Width)
	require.Equal(t, 2, s.Height)

	c := NewScaledCanvas(4, 2, 4, 4)
	c.DrawSprite(s, 0, 0, 4, 4)

	assert.True(t, c.Pixel(0, 0))
	assert.True(t, c.Pixel(1, 1))
	assert.False(t, c.Pixel(2, 0))
	assert.True(t, c.Pixel(3, 3))
	assert.False(t, c.Pixel(0, 3))
}

func TestInvaderSprites(t *testing.T) {
	for row := 0; row < 6; row++ {
		a, b := InvaderSprite(row, 0), InvaderSprite(row, 1)
		assert.Equal(t, a.Width, b.Width)
		assert.Equal(t, a.Height, b.Height)
		assert.NotSame(t, a, b)
	}
	assert.Same(t, InvaderSprite(0, 0), InvaderSprite(3, 2))
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(3, 1, 3, 2)
	c.SetFloat(0, 0) // top half
	c.SetFloat(1, 1) // bottom half
	c.SetFloat(2, 0)
	c.SetFloat(2, 1) // full

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, "\033[1;1H▀\033[1;2H▄\033[1;3H█", buf.String())
}

func TestRenderOnlyChanges(t *testing.T) {
	c := NewScaledCanvas(3, 1, 3, 2)
	c.SetFloat(0, 0)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))

	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Empty(t, buf.String(), "unchanged frame writes nothing")

	c.Clear()
	c.SetFloat(1, 0)
	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, "\033[1;1H \033[1;2H▀", buf.String())

	c.ForceRedraw()
	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, "\033[1;2H▀", buf.String())
}

func TestRenderAppliesOffset(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.SetOffset(4, 2)
	c.SetFloat(1, 0)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, "\033[3;6H▀", buf.String())
}

func TestRenderBorder(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)

	var buf bytes.Buffer
	require.NoError(t, c.RenderBorder(&buf))
	assert.Empty(t, buf.String())

	c.SetOffset(1, 1)
	require.NoError(t, c.RenderBorder(&buf))
	out := buf.String()
	assert.Contains(t, out, "┌──┐")
	assert.Contains(t, out, "└──┘")
	assert.Equal(t, 2, strings.Count(out, "│"))
}

func TestFitTerminal(t *testing.T) {
	tests := []struct {
		name                   string
		w, h, maxW, maxH       int
		rw, rh, offCol, offRow int
	}{
		{"fits", 80, 24, 160, 60, 80, 24, 0, 0},
		{"too wide", 200, 24, 160, 60, 160, 24, 20, 0},
		{"too tall", 80, 70, 160, 60, 80, 60, 0, 5},
		{"unclamped", 300, 100, 0, 0, 300, 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw, rh, oc, or := FitTerminal(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.Equal(t, []int{tt.rw, tt.rh, tt.offCol, tt.offRow}, []int{rw, rh, oc, or})
		})
	}
}

func TestLogicalToTerminal(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	col, row := c.LogicalToTerminal(50, 50)
	assert.Equal(t, 6, col)
	assert.Equal(t, 3, row)
}

func TestChunkWriter(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)

	cw.WriteAt(1, 1, "hi")
	cw.WriteCentered(10, 2, "abcd")
	assert.Positive(t, cw.Len())
	assert.Empty(t, out.String(), "nothing written before Flush")

	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[2;3Hhi\033[3;10Habcd", out.String())
	assert.Zero(t, cw.Len())
}

func TestChunkWriterLargeFrame(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	big := strings.Repeat("x", 3*maxChunkSize+7)
	cw.WriteString(big)
	require.NoError(t, cw.Flush())
	assert.Equal(t, big, out.String())
}

func TestMarkTextDirtyRepaints(t *testing.T) {
	c := NewScaledCanvas(4, 1, 4, 2)
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))

	c.MarkTextDirty(2, 1, 2)
	c.MarkTextDirty(4, 1, 5) // clipped at the right edge
	c.MarkTextDirty(1, 9, 1) // off screen

	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, "\033[1;2H \033[1;3H \033[1;4H ", buf.String())

	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Empty(t, buf.String())
}
