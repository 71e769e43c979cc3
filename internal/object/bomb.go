package object

// Bomb speed and size in logical units.
const (
	BombSpeed  = 180.0 // per second
	BombWidth  = 3.0
	BombHeight = 8.0
)

// Bomb is dropped by the bottom enemy of a column and falls to the ground.
// It only marks where the formation attacked; nothing is hit.
type Bomb struct {
	X, Y float64
}

// NewBomb drops a bomb from (x, y).
func NewBomb(x, y float64) *Bomb {
	return &Bomb{X: x, Y: y}
}

// Update lets the bomb fall and removes it at the ground.
func (b *Bomb) Update(ctx UpdateContext) (bool, error) {
	b.Y += BombSpeed * ctx.Delta.Seconds()
	ground := ctx.Screen.Ground
	if ground <= 0 {
		ground = ctx.Screen.Height
	}
	return b.Y >= ground, nil
}

// Draw renders the bomb as a short bar.
func (b *Bomb) Draw(ctx DrawContext) error {
	ctx.Canvas.FillRect(b.X-BombWidth/2, b.Y, BombWidth, BombHeight)
	return nil
}
