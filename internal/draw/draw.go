// Package draw renders to ANSI terminals: a scaled half-block canvas, small
// bitmap sprites, and a chunked writer for text overlays.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI colors used by overlays.
const (
	ColorReset      = "\033[0m"
	ColorRed        = "\033[31m"
	ColorGreen      = "\033[32m"
	ColorYellow     = "\033[33m"
	ColorBrightCyan = "\033[96m"
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
