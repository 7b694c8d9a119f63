package entities

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/utils"
)

// checkConservation 验证 |free| + |active| == capacity 且两者不相交
func checkConservation(t *testing.T, p *ProjectilePool) {
	t.Helper()

	if p.FreeCount()+p.ActiveCount() != p.Capacity() {
		t.Fatalf("conservation broken: free=%d active=%d capacity=%d", p.FreeCount(), p.ActiveCount(), p.Capacity())
	}

	seen := make(map[ecs.EntityID]bool, p.Capacity())
	for _, id := range p.free {
		if seen[id] {
			t.Fatalf("handle %d appears twice in free list", id)
		}
		seen[id] = true
	}
	for _, id := range p.active {
		if seen[id] {
			t.Fatalf("handle %d is both free and active", id)
		}
		seen[id] = true
	}
}

func spawnDefault(p *ProjectilePool) ecs.EntityID {
	return p.Spawn(utils.Vec2{}, utils.Vec2{X: 1}, 1, 1, "dot")
}

func TestNewProjectilePool(t *testing.T) {
	em := ecs.NewEntityManager()
	p := NewProjectilePool(em, 8, false)

	if p.Capacity() != 8 || p.FreeCount() != 8 || p.ActiveCount() != 0 {
		t.Errorf("unexpected initial counts: cap=%d free=%d active=%d", p.Capacity(), p.FreeCount(), p.ActiveCount())
	}
	if em.EntityCount() != 8 {
		t.Errorf("expected 8 preallocated entities, got %d", em.EntityCount())
	}

	// 负容量按 0 处理
	empty := NewProjectilePool(ecs.NewEntityManager(), -5, false)
	if empty.Capacity() != 0 {
		t.Errorf("negative capacity should clamp to 0, got %d", empty.Capacity())
	}
	if id := spawnDefault(empty); id != ecs.InvalidEntity {
		t.Error("spawn from zero-capacity pool must return InvalidEntity")
	}
}

func TestSpawnInitializesProjectile(t *testing.T) {
	p := NewProjectilePool(ecs.NewEntityManager(), 4, true)

	id := p.Spawn(utils.Vec2{X: 1, Y: -2}, utils.Vec2{X: 3, Y: 4}, 5, 2, "petal")
	if id == ecs.InvalidEntity {
		t.Fatal("spawn should succeed")
	}

	proj, pos, ok := p.Get(id)
	if !ok {
		t.Fatal("spawned projectile should have components")
	}
	if pos.X != 1 || pos.Y != -2 {
		t.Errorf("position: got (%v, %v), want (1, -2)", pos.X, pos.Y)
	}
	if math.Abs(proj.DirX-0.6) > 1e-9 || math.Abs(proj.DirY-0.8) > 1e-9 {
		t.Errorf("direction should be normalized, got (%v, %v)", proj.DirX, proj.DirY)
	}
	if proj.Speed != 5 || proj.Damage != 2 || proj.Sprite != "petal" || !proj.Active {
		t.Errorf("unexpected projectile state: %+v", proj)
	}

	// 负速度、负伤害按 0 处理
	id2 := p.Spawn(utils.Vec2{}, utils.Vec2{}, -1, -1, "")
	proj2, _, _ := p.Get(id2)
	if proj2.Speed != 0 || proj2.Damage != 0 {
		t.Errorf("negative speed/damage should clamp to 0, got %v/%v", proj2.Speed, proj2.Damage)
	}
	if math.Abs(math.Hypot(proj2.DirX, proj2.DirY)-1) > 1e-9 {
		t.Error("zero direction should still produce a unit vector")
	}
}

// TestSpawnSaturation 容量耗尽后 Spawn 返回空句柄
func TestSpawnSaturation(t *testing.T) {
	const capacity = 16
	p := NewProjectilePool(ecs.NewEntityManager(), capacity, false)

	for i := 0; i < capacity; i++ {
		if id := spawnDefault(p); id == ecs.InvalidEntity {
			t.Fatalf("spawn %d should succeed", i)
		}
	}

	if id := spawnDefault(p); id != ecs.InvalidEntity {
		t.Errorf("spawn beyond capacity should return InvalidEntity, got %d", id)
	}
	if id := spawnDefault(p); id != ecs.InvalidEntity {
		t.Error("pool must never grow")
	}
	if p.Dropped() != 2 {
		t.Errorf("expected 2 dropped emissions, got %d", p.Dropped())
	}
	checkConservation(t, p)

	// 释放一个后又可以生成
	if err := p.Despawn(p.Active()[0]); err != nil {
		t.Fatalf("despawn failed: %v", err)
	}
	if id := spawnDefault(p); id == ecs.InvalidEntity {
		t.Error("spawn should succeed after a despawn")
	}
}

// TestPoolConservation 任意 Spawn/Despawn 序列后守恒律成立
func TestPoolConservation(t *testing.T) {
	p := NewProjectilePool(ecs.NewEntityManager(), 32, false)
	rng := rand.New(rand.NewSource(42))

	for step := 0; step < 2000; step++ {
		if rng.Intn(3) > 0 {
			spawnDefault(p)
		} else if p.ActiveCount() > 0 {
			active := p.Active()
			if err := p.Despawn(active[rng.Intn(len(active))]); err != nil {
				t.Fatalf("step %d: despawn failed: %v", step, err)
			}
		}
		checkConservation(t, p)
	}
}

func TestDespawnClearsState(t *testing.T) {
	p := NewProjectilePool(ecs.NewEntityManager(), 2, true)
	id := p.Spawn(utils.Vec2{}, utils.Vec2{X: 1}, 3, 1, "petal")

	if err := p.Despawn(id); err != nil {
		t.Fatalf("despawn failed: %v", err)
	}

	proj, _, _ := p.Get(id)
	if proj.Active || proj.Sprite != "" {
		t.Errorf("despawn should clear visual binding and active flag: %+v", proj)
	}
	if p.IsActive(id) {
		t.Error("despawned handle should not be active")
	}
}

// TestDespawnInvalidHandleRelease 发布模式：非法句柄返回错误，不改变状态
func TestDespawnInvalidHandleRelease(t *testing.T) {
	p := NewProjectilePool(ecs.NewEntityManager(), 4, false)
	id := spawnDefault(p)
	_ = p.Despawn(id)

	err := p.Despawn(id) // 重复释放
	if !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("double free should return ErrInvalidHandle, got %v", err)
	}
	if err := p.Despawn(ecs.EntityID(999)); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("unknown handle should return ErrInvalidHandle, got %v", err)
	}
	checkConservation(t, p)
}

// TestDespawnInvalidHandleDebug 调试模式：重复释放直接 panic
func TestDespawnInvalidHandleDebug(t *testing.T) {
	p := NewProjectilePool(ecs.NewEntityManager(), 4, true)
	id := spawnDefault(p)
	_ = p.Despawn(id)

	defer func() {
		if recover() == nil {
			t.Error("double free in debug mode should panic")
		}
	}()
	_ = p.Despawn(id)
}

// TestActiveSnapshot 活动集合快照不受后续 Despawn 影响
func TestActiveSnapshot(t *testing.T) {
	p := NewProjectilePool(ecs.NewEntityManager(), 8, true)
	for i := 0; i < 5; i++ {
		spawnDefault(p)
	}

	snapshot := p.Active()
	for _, id := range snapshot {
		if err := p.Despawn(id); err != nil {
			t.Fatalf("despawn during snapshot iteration failed: %v", err)
		}
	}
	if len(snapshot) != 5 {
		t.Errorf("snapshot length changed to %d", len(snapshot))
	}
	if p.ActiveCount() != 0 {
		t.Errorf("expected 0 active, got %d", p.ActiveCount())
	}
}

func TestForceExpireAll(t *testing.T) {
	p := NewProjectilePool(ecs.NewEntityManager(), 8, true)
	for i := 0; i < 6; i++ {
		spawnDefault(p)
	}

	if n := p.ForceExpireAll(); n != 6 {
		t.Errorf("ForceExpireAll returned %d, want 6", n)
	}
	if p.ActiveCount() != 0 || p.FreeCount() != 8 {
		t.Errorf("after force expire: active=%d free=%d", p.ActiveCount(), p.FreeCount())
	}
	if n := p.ForceExpireAll(); n != 0 {
		t.Errorf("second ForceExpireAll returned %d, want 0", n)
	}
}
