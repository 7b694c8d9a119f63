package entities

import (
	"errors"
	"fmt"
	"log"

	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/utils"
)

var (
	// ErrPoolExhausted 没有空闲子弹，本次发射被丢弃
	ErrPoolExhausted = errors.New("projectile pool exhausted")

	// ErrInvalidHandle Despawn 的句柄不在活动集合中（调用方逻辑错误）
	ErrInvalidHandle = errors.New("invalid projectile handle")
)

// ProjectilePool 固定容量的子弹回收池
//
// 所有子弹实体在构造时一次性创建，之后永不销毁：
//   - Spawn: 空闲 → 活动，重新初始化组件
//   - Despawn: 活动 → 空闲，清空精灵
//
// 不变式: 每个句柄恰好位于空闲列表或活动集合之一，|free| + |active| == Capacity
type ProjectilePool struct {
	entityManager *ecs.EntityManager

	capacity int

	// free 空闲句柄栈
	free []ecs.EntityID

	// active 活动句柄，activeIndex 记录其下标以便 O(1) 移除
	active      []ecs.EntityID
	activeIndex map[ecs.EntityID]int

	// debug 为 true 时，非法 Despawn 直接 panic
	debug bool

	dropped   int
	exhausted bool
}

// NewProjectilePool 创建子弹池并预先构造全部实体
//
// 参数：
//   - em: 实体管理器
//   - capacity: 容量（< 0 按 0 处理）
//   - debug: 调试模式
//
// 返回：
//   - *ProjectilePool: 子弹池实例
func NewProjectilePool(em *ecs.EntityManager, capacity int, debug bool) *ProjectilePool {
	if capacity < 0 {
		capacity = 0
	}

	p := &ProjectilePool{
		entityManager: em,
		capacity:      capacity,
		free:          make([]ecs.EntityID, 0, capacity),
		active:        make([]ecs.EntityID, 0, capacity),
		activeIndex:   make(map[ecs.EntityID]int, capacity),
		debug:         debug,
	}

	for i := 0; i < capacity; i++ {
		id := em.CreateEntity()
		ecs.AddComponent(em, id, &components.PositionComponent{})
		ecs.AddComponent(em, id, &components.ProjectileComponent{})
		p.free = append(p.free, id)
	}

	// 逆序入栈，使第一次 Spawn 拿到最小的句柄
	for i, j := 0, len(p.free)-1; i < j; i, j = i+1, j-1 {
		p.free[i], p.free[j] = p.free[j], p.free[i]
	}

	log.Printf("[ProjectilePool] Preallocated %d projectiles (debug=%v)", capacity, debug)
	return p
}

// Spawn 从池中取出一颗子弹并初始化
//
// 池耗尽时返回 ecs.InvalidEntity（静默丢弃，不阻塞、不扩容）。
// direction 会被归一化；负的 speed/damage 按 0 处理。
func (p *ProjectilePool) Spawn(position, direction utils.Vec2, speed, damage float64, sprite string) ecs.EntityID {
	if len(p.free) == 0 {
		p.dropped++
		if !p.exhausted {
			p.exhausted = true
			log.Printf("[ProjectilePool] Warning: %v (capacity %d), dropping emissions", ErrPoolExhausted, p.capacity)
		}
		return ecs.InvalidEntity
	}
	p.exhausted = false

	id := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	proj, pos, ok := p.Get(id)
	if !ok {
		// 实体在池外被删除：不可能发生的内部一致性错误
		panic(fmt.Sprintf("projectile pool: entity %d lost its components", id))
	}

	dir := direction.Normalized()
	pos.X = position.X
	pos.Y = position.Y
	proj.DirX = dir.X
	proj.DirY = dir.Y
	proj.Speed = nonNegative(speed)
	proj.Damage = nonNegative(damage)
	proj.Sprite = sprite
	proj.Age = 0
	proj.Active = true

	p.activeIndex[id] = len(p.active)
	p.active = append(p.active, id)

	return id
}

// Despawn 将活动子弹归还空闲列表
//
// 句柄不在活动集合中时：调试模式 panic，否则记录日志并返回 ErrInvalidHandle
func (p *ProjectilePool) Despawn(id ecs.EntityID) error {
	idx, ok := p.activeIndex[id]
	if !ok {
		err := fmt.Errorf("despawn entity %d: %w", id, ErrInvalidHandle)
		if p.debug {
			panic(err)
		}
		log.Printf("[ProjectilePool] Warning: %v", err)
		return err
	}

	// 交换删除，保持 O(1)
	last := len(p.active) - 1
	moved := p.active[last]
	p.active[idx] = moved
	p.activeIndex[moved] = idx
	p.active = p.active[:last]
	delete(p.activeIndex, id)

	if proj, _, ok := p.Get(id); ok {
		proj.Active = false
		proj.Sprite = ""
		proj.Speed = 0
		proj.Age = 0
	}

	p.free = append(p.free, id)
	return nil
}

// ForceExpireAll 强制回收所有活动子弹（关卡结束时"转换"子弹）
// 遍历活动集合的快照，返回回收数量
func (p *ProjectilePool) ForceExpireAll() int {
	snapshot := p.Active()
	for _, id := range snapshot {
		if proj, _, ok := p.Get(id); ok {
			proj.Speed = 0
		}
		_ = p.Despawn(id)
	}
	if len(snapshot) > 0 {
		log.Printf("[ProjectilePool] Force-expired %d projectiles", len(snapshot))
	}
	return len(snapshot)
}

// Get 获取子弹的组件
func (p *ProjectilePool) Get(id ecs.EntityID) (*components.ProjectileComponent, *components.PositionComponent, bool) {
	proj, ok := ecs.GetComponent[*components.ProjectileComponent](p.entityManager, id)
	if !ok {
		return nil, nil, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](p.entityManager, id)
	if !ok {
		return nil, nil, false
	}
	return proj, pos, true
}

// IsActive 检查句柄是否在活动集合中
func (p *ProjectilePool) IsActive(id ecs.EntityID) bool {
	_, ok := p.activeIndex[id]
	return ok
}

// Active 返回活动句柄的快照副本，调用方可在遍历时 Despawn
func (p *ProjectilePool) Active() []ecs.EntityID {
	snapshot := make([]ecs.EntityID, len(p.active))
	copy(snapshot, p.active)
	return snapshot
}

// ActiveCount 当前活动子弹数量 O(1)
func (p *ProjectilePool) ActiveCount() int {
	return len(p.active)
}

// FreeCount 当前空闲子弹数量
func (p *ProjectilePool) FreeCount() int {
	return len(p.free)
}

// Capacity 池容量
func (p *ProjectilePool) Capacity() int {
	return p.capacity
}

// Dropped 因池耗尽被丢弃的发射次数
func (p *ProjectilePool) Dropped() int {
	return p.dropped
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
