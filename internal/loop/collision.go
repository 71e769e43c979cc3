package loop

import (
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/torus"
)

// Explosion tuning in logical units and seconds.
const (
	explosionSpeed    = 60.0
	explosionLifetime = 0.6
	labelLifetime     = 0.8
)

// killAt removes the enemy under (x, y), if any.
func (s *Session) killAt(x, y float64) bool {
	cell, ok := s.state.Formation.HitTest(x, y)
	if !ok {
		return false
	}
	s.killEnemy(cell)
	return true
}

// killEnemy removes one enemy, spawns its explosion and labels rows and
// columns that went with it.
func (s *Session) killEnemy(cell torus.Cell) {
	st := s.state
	res := st.Formation.Kill(cell)
	st.Kills++

	box := res.Enemy.Box()
	cx, cy := box.Center()
	object.SpawnExplosion(cx, cy, s.cfg.Viewer.ExplosionSize, explosionSpeed, explosionLifetime, st)

	switch {
	case res.RowRemoved && res.ColRemoved:
		st.Spawn(object.NewLabel(cx, box.Y, "ROW+COL", labelLifetime))
	case res.RowRemoved:
		st.Spawn(object.NewLabel(cx, box.Y, "ROW", labelLifetime))
	case res.ColRemoved:
		st.Spawn(object.NewLabel(cx, box.Y, "COL", labelLifetime))
	}
	if res.RowRemoved || res.ColRemoved {
		s.logger.Debug("headers removed",
			"row", res.Enemy.Row, "row_removed", res.RowRemoved,
			"col", res.Enemy.Col, "col_removed", res.ColRemoved,
			"live", res.Live)
	}
}
