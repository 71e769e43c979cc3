package draw

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Canvas is a drawing buffer with 2x vertical resolution using half-block
// characters. Callers draw in logical coordinates; the canvas scales them to
// terminal cells.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int    // termHeight * 2
	pixels         []bool // [y * termWidth + x]
	prev           []bool // pixels as last rendered; nil forces a full redraw
	dirty          []bool // [row * termWidth + col] cells overwritten by text

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // subPixelHeight / logicalHeight

	// 0-based terminal offsets of the render area when it is centered in
	// a larger terminal.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
}

// NewScaledCanvas creates a canvas that maps a logicalWidth x logicalHeight
// coordinate space onto termWidth x termHeight terminal cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{logicalWidth: logicalWidth, logicalHeight: logicalHeight}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth, termHeight = max(termWidth, 0), max(termHeight, 0)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]bool, c.subPixelHeight*termWidth)
		c.dirty = make([]bool, termHeight*termWidth)
		c.prev = nil
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row at which the canvas starts.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.prev = nil
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render emit every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.prev = nil
}

// MarkTextDirty records that n cells starting at the 1-based (col, row) of
// the render area were overwritten by text, so the next Render repaints
// them.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	row--
	if row < 0 || row >= c.termHeight {
		return
	}
	for x := max(col-1, 0); x < min(col-1+n, c.termWidth); x++ {
		c.dirty[row*c.termWidth+x] = true
	}
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

func (c *Canvas) setPixel(x, y int) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = true
	}
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.scaleX)), int(math.Round(y * c.scaleY))
}

// Pixel reports whether the sub-pixel at (x, y) is set.
func (c *Canvas) Pixel(x, y int) bool {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return false
	}
	return c.pixels[y*c.termWidth+x]
}

// SetFloat sets the pixel under a logical coordinate.
func (c *Canvas) SetFloat(x, y float64) {
	c.setPixel(c.toPixel(x, y))
}

// DrawLine draws a line between two logical points using Bresenham's
// algorithm.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x1, y1 := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		c.setPixel(x1, y1)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// FillRect fills the logical rectangle (x, y, w, h). At least one pixel is
// drawn for any rectangle inside the canvas, however small it scales.
func (c *Canvas) FillRect(x, y, w, h float64) {
	x0, y0 := c.toPixel(x, y)
	x1, y1 := c.toPixel(x+w, y+h)
	x1, y1 = max(x1, x0+1), max(y1, y0+1)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.setPixel(px, py)
		}
	}
}

// StrokeRect outlines the logical rectangle (x, y, w, h).
func (c *Canvas) StrokeRect(x, y, w, h float64) {
	tl, tr := Point{x, y}, Point{x + w, y}
	bl, br := Point{x, y + h}, Point{x + w, y + h}
	c.DrawLine(tl, tr)
	c.DrawLine(tr, br)
	c.DrawLine(br, bl)
	c.DrawLine(bl, tl)
}

// DrawSprite stretches s over the logical rectangle (x, y, w, h).
func (c *Canvas) DrawSprite(s *Sprite, x, y, w, h float64) {
	if s == nil || s.Width == 0 || s.Height == 0 {
		return
	}
	x0, y0 := c.toPixel(x, y)
	x1, y1 := c.toPixel(x+w, y+h)
	pw, ph := x1-x0, y1-y0
	if pw <= 0 || ph <= 0 {
		c.setPixel(x0, y0)
		return
	}
	for py := 0; py < ph; py++ {
		sy := py * s.Height / ph
		for px := 0; px < pw; px++ {
			if s.At(px*s.Width/pw, sy) {
				c.setPixel(x0+px, y0+py)
			}
		}
	}
}

// maxChunkSize is the maximum bytes to write at once, about one MTU, so
// frames flow smoothly over SSH.
const maxChunkSize = 1400

// Render writes the canvas using half-block characters. Only cells that
// changed since the previous Render are emitted.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	c.renderBuf.Grow(c.termWidth * c.termHeight * 4)

	full := c.prev == nil
	for row := 0; row < c.termHeight; row++ {
		top := row * 2 * c.termWidth
		bottom := top + c.termWidth
		for col := 0; col < c.termWidth; col++ {
			t, b := c.pixels[top+col], c.pixels[bottom+col]
			dirty := c.dirty[row*c.termWidth+col]
			if !full && !dirty && t == c.prev[top+col] && b == c.prev[bottom+col] {
				continue
			}

			var ch rune
			switch {
			case t && b:
				ch = BlockFull
			case t:
				ch = BlockUpperHalf
			case b:
				ch = BlockLowerHalf
			default:
				if full && !dirty {
					continue
				}
				ch = ' '
			}
			fmt.Fprintf(&c.renderBuf, "\033[%d;%dH%c", row+1+c.offsetRow, col+1+c.offsetCol, ch)
		}
	}

	if c.prev == nil || len(c.prev) != len(c.pixels) {
		c.prev = make([]bool, len(c.pixels))
	}
	copy(c.prev, c.pixels)
	clear(c.dirty)

	return writeChunks(w, c.renderBuf.String())
}

func writeChunks(w io.Writer, data string) error {
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// RenderBorder draws a box around the canvas when it is centered in a
// larger terminal: horizontal bars when there is a row offset, vertical bars
// when there is a column offset, corners when both.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return nil
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	bar := strings.Repeat("─", c.termWidth)

	var buf strings.Builder
	if hasV {
		if hasH {
			fmt.Fprintf(&buf, "\033[%d;%dH┌%s┐", top, left, bar)
			fmt.Fprintf(&buf, "\033[%d;%dH└%s┘", bottom, left, bar)
		} else {
			fmt.Fprintf(&buf, "\033[%d;%dH%s", top, c.offsetCol+1, bar)
			fmt.Fprintf(&buf, "\033[%d;%dH%s", bottom, c.offsetCol+1, bar)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			fmt.Fprintf(&buf, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

// LogicalWidth returns the logical width.
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height.
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the render area width in columns.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the render area height in rows.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts a logical coordinate to a 1-based (col, row)
// inside the render area, for placing text next to drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return px + 1, py/2 + 1
}

// FitTerminal clamps a terminal size to the maximum render area and returns
// the centering offsets. A non-positive maximum leaves that axis unclamped.
func FitTerminal(termWidth, termHeight, maxWidth, maxHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth, renderHeight = termWidth, termHeight
	if maxWidth > 0 && renderWidth > maxWidth {
		renderWidth = maxWidth
	}
	if maxHeight > 0 && renderHeight > maxHeight {
		renderHeight = maxHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
