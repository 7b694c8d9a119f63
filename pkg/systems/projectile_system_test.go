package systems

import (
	"math"
	"testing"

	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/entities"
	"github.com/gonewx/fouhou/pkg/utils"
)

func TestProjectileSystemMovesProjectiles(t *testing.T) {
	em := ecs.NewEntityManager()
	pool := entities.NewProjectilePool(em, 4, true)
	sys := NewProjectileSystem(em, pool, nil, nil)

	id := pool.Spawn(utils.Vec2{X: 1, Y: 1}, utils.Vec2{X: 0, Y: -1}, 2, 1, "dot")
	sys.Update(0.5)

	proj, pos, _ := pool.Get(id)
	if math.Abs(pos.X-1) > 1e-9 || math.Abs(pos.Y-0) > 1e-9 {
		t.Errorf("expected position (1, 0), got (%v, %v)", pos.X, pos.Y)
	}
	if proj.Age != 0.5 {
		t.Errorf("expected age 0.5, got %v", proj.Age)
	}
}

// TestProjectileSystemBoundsExpiry 边界外的静止子弹在下一帧被回收
func TestProjectileSystemBoundsExpiry(t *testing.T) {
	em := ecs.NewEntityManager()
	pool := entities.NewProjectilePool(em, 4, true)
	score := &recordingScore{}
	sys := NewProjectileSystem(em, pool, nil, score)

	pool.Spawn(utils.Vec2{X: 9, Y: 0}, utils.Vec2{X: 1}, 0, 1, "outside")
	pool.Spawn(utils.Vec2{X: 0, Y: 4.5}, utils.Vec2{X: 1}, 0, 1, "on-edge")

	if n := sys.Update(1.0 / 60); n != 1 {
		t.Errorf("expected 1 expiry, got %d", n)
	}
	if pool.ActiveCount() != 1 {
		t.Errorf("projectile on the boundary should stay active, active=%d", pool.ActiveCount())
	}
	if score.expired != 1 {
		t.Errorf("ledger should be notified of 1 expiry, got %d", score.expired)
	}
}

func TestProjectileSystemCustomBounds(t *testing.T) {
	em := ecs.NewEntityManager()
	pool := entities.NewProjectilePool(em, 4, true)
	bounds := StaticBounds(config.PlayAreaBounds{Left: -1, Right: 1, Top: 1, Bottom: -1})
	sys := NewProjectileSystem(em, pool, bounds, nil)

	pool.Spawn(utils.Vec2{X: 2}, utils.Vec2{X: 1}, 0, 1, "")
	pool.Spawn(utils.Vec2{X: 0.5}, utils.Vec2{X: 1}, 0, 1, "")

	sys.Update(0)
	if pool.ActiveCount() != 1 {
		t.Errorf("custom bounds not applied, active=%d", pool.ActiveCount())
	}
}

func TestProjectileSystemFrozen(t *testing.T) {
	em := ecs.NewEntityManager()
	pool := entities.NewProjectilePool(em, 4, true)
	sys := NewProjectileSystem(em, pool, nil, nil)

	id := pool.Spawn(utils.Vec2{}, utils.Vec2{X: 1}, 100, 1, "")

	freeze := em.CreateEntity()
	ecs.AddComponent(em, freeze, &components.GameFreezeComponent{IsFrozen: true})

	sys.Update(1)
	_, pos, _ := pool.Get(id)
	if pos.X != 0 || !pool.IsActive(id) {
		t.Errorf("frozen game should not move projectiles, x=%v", pos.X)
	}
}
