package object

// labelBlinkTime is how long before expiry a label starts blinking.
const labelBlinkTime = 0.4

// Label is a short text that floats up from a logical position and fades.
type Label struct {
	X, Y     float64
	Value    string
	Lifetime float64 // seconds remaining
	Rise     float64 // logical units per second
}

// NewLabel creates a label shown for lifetime seconds.
func NewLabel(x, y float64, value string, lifetime float64) *Label {
	return &Label{X: x, Y: y, Value: value, Lifetime: lifetime, Rise: 20}
}

// Update ages the label.
func (l *Label) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()
	l.Lifetime -= dt
	l.Y -= l.Rise * dt
	return l.Lifetime <= 0, nil
}

// Draw writes the label centered on its position.
func (l *Label) Draw(ctx DrawContext) error {
	if l.Value == "" {
		return nil
	}
	if l.Lifetime < labelBlinkTime && !ShouldRenderBlink(l.Lifetime, 8) {
		return nil
	}
	col, row := ctx.Canvas.LogicalToTerminal(l.X, l.Y)
	if row < 1 || row > ctx.Canvas.TerminalHeight() {
		return nil
	}
	col -= len(l.Value) / 2
	if col < 1 || col+len(l.Value) > ctx.Canvas.TerminalWidth() {
		return nil
	}
	ctx.Writer.WriteAt(col, row, l.Value)
	ctx.Canvas.MarkTextDirty(col, row, len(l.Value))
	return nil
}
