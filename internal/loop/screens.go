package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/object"
)

// titleArt is figlet "small".
var titleArt = []string{
	` ___ _  ___   ___   ___  ___ ___  ___ `,
	`|_ _| \| \ \ / /_\ |   \| __| _ \/ __|`,
	` | || .' |\ V / _ \| |) | _||   /\__ \`,
	`|___|_|\_| \_/_/ \_\___/|___|_|_\|___/`,
}

// drawFrame draws the current frame into the chunk writer and flushes it.
func (s *Session) drawFrame() error {
	st := s.state

	// Clear the whole terminal on screen changes so text from the previous
	// screen does not linger.
	if st.GameState != st.prevGameState || st.isInactive != st.wasInactive {
		s.chunkWriter.WriteString("\033[H\033[2J")
		s.canvas.ForceRedraw()
		st.prevGameState = st.GameState
		st.wasInactive = st.isInactive
	}

	s.canvas.Clear()
	if st.GameState != GameStateStart && !st.isInactive {
		s.drawPlayfield()
		ctx := object.DrawContext{Canvas: s.canvas, Writer: s.chunkWriter}
		for _, obj := range st.Objects {
			if err := obj.Draw(ctx); err != nil {
				return err
			}
		}
	}

	if err := s.canvas.Render(s.chunkWriter); err != nil {
		return err
	}
	if err := s.canvas.RenderBorder(s.chunkWriter); err != nil {
		return err
	}

	s.drawUI()
	return s.chunkWriter.Flush()
}

// drawPlayfield draws the ground and a dotted invasion line.
func (s *Session) drawPlayfield() {
	scr := s.cfg.Screen
	w := float64(scr.Width)
	s.canvas.DrawLine(draw.Point{X: 0, Y: scr.Ground}, draw.Point{X: w, Y: scr.Ground})
	for x := 0.0; x < w; x += 16 {
		s.canvas.DrawLine(draw.Point{X: x, Y: scr.InvasionLine}, draw.Point{X: x + 4, Y: scr.InvasionLine})
	}
}

// drawUI draws the text overlay for the current state.
func (s *Session) drawUI() {
	width := s.canvas.TerminalWidth()
	height := s.canvas.TerminalHeight()
	centerX, centerY := width/2, height/2

	if s.state.isInactive {
		s.drawInactivityScreen(centerX, centerY)
		return
	}

	switch s.state.GameState {
	case GameStateStart:
		s.drawStartScreen(centerX, centerY)
	case GameStateRunning:
		s.drawHUD(width, height)
	case GameStatePaused:
		s.drawHUD(width, height)
		s.drawMessage(centerX, centerY, "PAUSED", "Press P to resume")
	case GameStateCleared:
		s.drawHUD(width, height)
		s.drawMessage(centerX, centerY,
			fmt.Sprintf("WAVE %d CLEARED", s.state.Wave),
			blink(">>  Press SPACE for the next wave  <<"))
	case GameStateInvaded:
		s.drawHUD(width, height)
		s.drawMessage(centerX, centerY, "INVADED", blink(">>  Press SPACE to start over  <<"))
	}
}

// blink returns s or nothing, alternating every 600ms.
func blink(s string) string {
	if time.Now().UnixMilli()/600%2 == 0 {
		return s
	}
	return ""
}

func (s *Session) drawStartScreen(centerX, centerY int) {
	cw := s.chunkWriter
	titleWidth := 0
	for _, line := range titleArt {
		titleWidth = max(titleWidth, len(line))
	}
	top := centerY - 7
	for i, line := range titleArt {
		cw.WriteAt(centerX-titleWidth/2, top+i, line)
	}

	rows, cols := s.cfg.Formation.Rows, s.cfg.Formation.Cols
	cw.WriteCentered(centerX, top+len(titleArt)+1, fmt.Sprintf("~ a %dx%d formation on a torus ~", rows, cols))

	controlsY := top + len(titleArt) + 3
	cw.WriteCentered(centerX, controlsY, "Controls")
	controls := []string{
		"WASD / Arrows  .  Aim",
		"SPACE  . . . .  Remove",
		"X  . . . . . .  Auto on/off",
		"P  . . . . . .  Pause",
		"Q  . . . . . .  Quit",
	}
	for i, line := range controls {
		cw.WriteCentered(centerX, controlsY+1+i, line)
	}
	if prompt := blink(">>  Press SPACE to Start  <<"); prompt != "" {
		cw.WriteCentered(centerX, controlsY+len(controls)+2, prompt)
	} else {
		cw.WriteCentered(centerX, controlsY+len(controls)+2, "                            ")
	}
}

// drawHUD draws the formation status in the corners. Fields have fixed
// widths so shorter values overwrite longer ones.
func (s *Session) drawHUD(width, height int) {
	st := s.state
	f := st.Formation
	rows, cols := f.Shape()
	move, fire := f.Intervals()

	dir := "right"
	if f.Direction() < 0 {
		dir = "left"
	}
	auto := "off"
	if st.AutoKill {
		auto = "on"
	}

	top := fmt.Sprintf("Wave: %-3d Live: %-4d Kills: %-4d", st.Wave, f.Live(), st.Kills)
	shape := fmt.Sprintf("Rows: %-3d Cols: %-3d", rows, cols)
	motion := fmt.Sprintf("Dir: %-5s Phase: %-10s", dir, f.Phase())
	timing := fmt.Sprintf("Move: %-3d Fire: %-4d Auto: %-3s", move, fire, auto)

	s.writeHUD(2, 1, top)
	s.writeHUD(width-len(shape), 1, shape)
	s.writeHUD(2, height, motion)
	s.writeHUD(width-len(timing), height, timing)
}

func (s *Session) writeHUD(col, row int, text string) {
	if col < 1 {
		col = 1
	}
	s.chunkWriter.WriteAt(col, row, text)
	s.canvas.MarkTextDirty(col, row, len(text))
}

// drawMessage writes a title and a hint in the middle of the screen.
func (s *Session) drawMessage(centerX, centerY int, title, hint string) {
	s.chunkWriter.WriteCentered(centerX, centerY-1, title)
	s.canvas.MarkTextDirty(centerX-len(title)/2, centerY-1, len(title))
	if hint != "" {
		s.chunkWriter.WriteCentered(centerX, centerY+1, hint)
		s.canvas.MarkTextDirty(centerX-len(hint)/2, centerY+1, len(hint))
	}
}

func (s *Session) drawInactivityScreen(centerX, centerY int) {
	cw := s.chunkWriter
	cw.WriteCentered(centerX, centerY-2, "INACTIVITY WARNING")
	remaining := int(s.cfg.Session.InactivityDisconnect - time.Since(s.lastInput).Seconds())
	cw.WriteCentered(centerX, centerY,
		fmt.Sprintf("You have been inactive for too long. You will be disconnected in %d seconds.", max(remaining, 0)))
	cw.WriteCentered(centerX, centerY+2, "Press any key to continue")
}
