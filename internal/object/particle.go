package object

import (
	"math"
	"math/rand"
	"sync"
)

var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is one fragment of an explosion.
type Particle struct {
	X, Y        float64
	VX, VY      float64 // logical units per second
	Lifetime    float64 // seconds remaining
	MaxLifetime float64
	Drag        float64 // velocity kept per 1/60 s; 1 means no drag
}

// NewParticle takes a particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X: x, Y: y,
		VX: vx, VY: vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.95,
	}
	return p
}

// Release returns the particle to the pool.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnExplosion bursts count particles out of (x, y).
func SpawnExplosion(x, y float64, count int, speed, lifetime float64, spawner Spawner) {
	if spawner == nil {
		return
	}
	for i := 0; i < count; i++ {
		angle := rand.Float64() * 2 * math.Pi
		spd := speed * (0.5 + rand.Float64())
		life := lifetime * (0.5 + rand.Float64()*0.5)
		spawner.Spawn(NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life))
	}
}

// Update moves the particle and ages it.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true, nil
	}

	drag := math.Pow(p.Drag, dt*60)
	p.VX *= drag
	p.VY *= drag
	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false, nil
}

// Draw plots the particle until the last quarter of its life.
func (p *Particle) Draw(ctx DrawContext) error {
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return nil
	}
	ctx.Canvas.SetFloat(p.X, p.Y)
	return nil
}
