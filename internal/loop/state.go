package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/formation"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
)

// GameState is the phase of a session.
type GameState int

const (
	GameStateStart   GameState = iota // title screen
	GameStateRunning                  // formation marching
	GameStatePaused
	GameStateCleared // every enemy removed
	GameStateInvaded // the formation reached the invasion line
)

func (g GameState) String() string {
	switch g {
	case GameStateStart:
		return "start"
	case GameStateRunning:
		return "running"
	case GameStatePaused:
		return "paused"
	case GameStateCleared:
		return "cleared"
	case GameStateInvaded:
		return "invaded"
	}
	return fmt.Sprintf("GameState(%d)", int(g))
}

// State holds everything a session shows and updates.
type State struct {
	GameState GameState
	Running   bool
	Wave      int
	Kills     int
	AutoKill  bool

	Input     input.Input
	prevInput input.Input

	Screen    object.Screen
	Formation *formation.Formation
	View      *object.FormationView
	Crosshair *object.Crosshair
	Objects   []object.Object
	toSpawn   []object.Object

	autoTimer     int
	prevGameState GameState
	isInactive    bool
	wasInactive   bool
}

// NewState creates the state of a fresh session on the title screen.
func NewState(cfg *config.Config) *State {
	return &State{
		GameState: GameStateStart,
		Running:   true,
		AutoKill:  cfg.Viewer.AutoKillTicks > 0,
		Screen: object.Screen{
			Width:  float64(cfg.Screen.Width),
			Height: float64(cfg.Screen.Height),
			Ground: cfg.Screen.Ground,
		},
	}
}

// Spawn queues an object to be added after the current update.
func (s *State) Spawn(obj object.Object) {
	s.toSpawn = append(s.toSpawn, obj)
}

// FlushSpawned adds all queued objects.
func (s *State) FlushSpawned() {
	s.Objects = append(s.Objects, s.toSpawn...)
	s.toSpawn = s.toSpawn[:0]
}

// UpdateContext creates the context for one tick.
func (s *State) UpdateContext(delta time.Duration) object.UpdateContext {
	return object.UpdateContext{
		Delta:   delta,
		Input:   s.Input,
		Screen:  s.Screen,
		Spawner: s,
	}
}

// resetObjects releases every effect and clears the object list.
func (s *State) resetObjects() {
	for _, obj := range s.Objects {
		object.ReleaseObject(obj)
	}
	for _, obj := range s.toSpawn {
		object.ReleaseObject(obj)
	}
	s.Objects = s.Objects[:0]
	s.toSpawn = s.toSpawn[:0]
}

// pressed reports keys that went down this frame.
func (s *State) pressed() input.Input {
	in, prev := s.Input, s.prevInput
	return input.Input{
		Quit:  in.Quit,
		Left:  in.Left && !prev.Left,
		Right: in.Right && !prev.Right,
		Up:    in.Up && !prev.Up,
		Down:  in.Down && !prev.Down,
		Fire:  in.Fire && !prev.Fire,
		Enter: in.Enter && !prev.Enter,
		Pause: in.Pause && !prev.Pause,
		Auto:  in.Auto && !prev.Auto,
	}
}
