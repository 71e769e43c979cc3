package loop

import (
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/formation"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
)

// defaultAutoKillTicks is the removal interval when automatic removal is
// switched on without one configured.
const defaultAutoKillTicks = 30

// maxWaveDrops caps how much lower each new wave starts.
const maxWaveDrops = 4

// handleInput applies this frame's keys. Actions fire on the frame a key
// goes down; movement is read per tick from State.Input.
func (s *Session) handleInput(in input.Input) {
	st := s.state
	st.Input = in
	defer func() { st.prevInput = in }()

	if in.Quit {
		st.Running = false
		return
	}

	p := st.pressed()
	switch st.GameState {
	case GameStateStart, GameStateInvaded:
		if p.Enter || p.Fire {
			s.startWave(1)
		}
	case GameStateCleared:
		if p.Enter || p.Fire {
			s.startWave(st.Wave + 1)
		}
	case GameStateRunning:
		switch {
		case p.Pause:
			st.GameState = GameStatePaused
		case p.Fire:
			s.killAt(st.Crosshair.X, st.Crosshair.Y)
		}
		if p.Auto {
			st.AutoKill = !st.AutoKill
			st.autoTimer = 0
		}
	case GameStatePaused:
		if p.Pause || p.Enter {
			st.GameState = GameStateRunning
		}
	}
}

// startWave builds a fresh formation. Later waves start lower.
func (s *Session) startWave(wave int) {
	st := s.state
	input.ResetKeyInput(s.inputStream)

	fcfg := s.cfg.Formation
	fcfg.StartY += float64(min(wave-1, maxWaveDrops)) * fcfg.DropY

	f, err := formation.New(fcfg,
		formation.WithObserver(s.trace.Observer(s.sessionID, func(err error) {
			s.logger.Warn("trace write failed", "err", err)
		})),
		formation.WithObserver(s.logMove),
	)
	if err != nil {
		// The config was validated when the session was created.
		panic(err)
	}

	st.resetObjects()
	st.Formation = f
	st.View = object.NewFormationView(f)
	st.Crosshair = object.NewCrosshair(st.Screen.Width/2, crosshairY(s.cfg), s.cfg.Viewer.CrosshairSpeed)
	st.Objects = append(st.Objects, st.View, st.Crosshair)
	st.Wave = wave
	st.Kills = 0
	st.autoTimer = 0
	st.GameState = GameStateRunning

	rows, cols := f.Shape()
	s.logger.Info("wave started", "wave", wave, "rows", rows, "cols", cols)
}

func crosshairY(cfg *config.Config) float64 {
	return (cfg.Screen.InvasionLine + cfg.Screen.Ground) / 2
}

func (s *Session) logMove(ev formation.MoveEvent) {
	if ev.Kind == formation.MoveDrop {
		s.logger.Debug("formation reversed", "tick", ev.Tick, "direction", ev.Direction, "live", ev.Live)
	}
}

// tick advances the session by one fixed step.
func (s *Session) tick() error {
	switch s.state.GameState {
	case GameStateRunning:
		return s.tickRunning()
	case GameStateCleared, GameStateInvaded:
		// Let explosions and bombs finish.
		return s.updateObjects()
	}
	return nil
}

func (s *Session) tickRunning() error {
	st := s.state
	f := st.Formation

	res := f.Update()
	if res.Moved {
		st.View.Step()
	}
	if res.FireReady {
		if cell, bomber, ok := f.Fire(s.rng); ok {
			st.View.Mark(cell, s.cfg.Viewer.MarkerTicks)
			cx, _ := bomber.Box().Center()
			st.Spawn(object.NewBomb(cx, bomber.Box().Bottom()))
		}
	}

	if st.AutoKill {
		s.tickAutoKill()
	}

	if err := s.updateObjects(); err != nil {
		return err
	}

	switch {
	case f.Live() == 0:
		st.GameState = GameStateCleared
		s.logger.Info("wave cleared", "wave", st.Wave, "kills", st.Kills)
	default:
		if bottom, ok := f.Bottom(); ok && bottom >= s.cfg.Screen.InvasionLine {
			st.GameState = GameStateInvaded
			s.logger.Info("formation invaded", "wave", st.Wave, "live", f.Live())
		}
	}
	return nil
}

// tickAutoKill removes an enemy every interval: the current bomber if one
// is highlighted, otherwise the first enemy of the leftmost column.
func (s *Session) tickAutoKill() {
	st := s.state
	interval := s.cfg.Viewer.AutoKillTicks
	if interval <= 0 {
		interval = defaultAutoKillTicks
	}
	st.autoTimer++
	if st.autoTimer < interval {
		return
	}
	st.autoTimer = 0

	if cell, ok := st.View.Marked(); ok {
		s.killEnemy(cell)
		return
	}
	for cell := range st.Formation.Enemies() {
		s.killEnemy(cell)
		return
	}
}

// updateObjects updates all objects and drops the ones that are done.
func (s *Session) updateObjects() error {
	st := s.state
	ctx := st.UpdateContext(s.tickDuration)

	kept := st.Objects[:0]
	for _, obj := range st.Objects {
		remove, err := obj.Update(ctx)
		if err != nil {
			return err
		}
		if remove {
			object.ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(st.Objects[len(kept):])
	st.Objects = kept

	st.FlushSpawned()
	return nil
}
