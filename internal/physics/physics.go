// Package physics provides bounding-box collision tests.
package physics

// Box is an axis-aligned bounding box. X, Y is the top-left corner.
type Box struct {
	X, Y, W, H float64
}

// Overlaps reports whether two boxes intersect. Touching edges do not count.
func Overlaps(a, b Box) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X && a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// Contains reports whether the point lies inside the box (right and bottom
// edges excluded).
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.W && y >= b.Y && y < b.Y+b.H
}

// Center returns the midpoint of the box.
func (b Box) Center() (x, y float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Bottom returns the y coordinate of the lower edge.
func (b Box) Bottom() float64 {
	return b.Y + b.H
}
