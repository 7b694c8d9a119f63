package systems

import (
	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/entities"
)

// ProjectileSystem 子弹移动与越界回收
//
// 每帧对每颗活动子弹：
//  1. position += direction * speed * dt
//  2. 位于游戏区域之外则回收，并通知计分
//
// 越界检测为简单的矩形包含判断，不做子步进
type ProjectileSystem struct {
	entityManager *ecs.EntityManager
	pool          *entities.ProjectilePool

	// bounds 为 nil 时使用默认边界
	bounds   BoundsProvider
	notifier ExpiryNotifier
}

// NewProjectileSystem 创建子弹系统
//
// 参数：
//   - em: 实体管理器（用于检测冻结状态）
//   - pool: 子弹池
//   - bounds: 边界提供者，可为 nil
//   - notifier: 过期通知，可为 nil
func NewProjectileSystem(em *ecs.EntityManager, pool *entities.ProjectilePool, bounds BoundsProvider, notifier ExpiryNotifier) *ProjectileSystem {
	return &ProjectileSystem{
		entityManager: em,
		pool:          pool,
		bounds:        bounds,
		notifier:      notifier,
	}
}

// Update 移动所有活动子弹并回收越界子弹
// 返回本帧回收的数量
func (s *ProjectileSystem) Update(dt float64) int {
	if isGameFrozen(s.entityManager) {
		return 0
	}

	bounds := s.currentBounds()
	expired := 0

	// 遍历快照，回收不会影响迭代
	for _, id := range s.pool.Active() {
		proj, pos, ok := s.pool.Get(id)
		if !ok {
			continue
		}

		pos.X += proj.DirX * proj.Speed * dt
		pos.Y += proj.DirY * proj.Speed * dt
		proj.Age += dt

		if bounds.IsOutside(pos.X, pos.Y) {
			if err := s.pool.Despawn(id); err == nil {
				expired++
			}
		}
	}

	if expired > 0 && s.notifier != nil {
		s.notifier.NotifyProjectileExpired(expired)
	}
	return expired
}

func (s *ProjectileSystem) currentBounds() config.PlayAreaBounds {
	if s.bounds == nil {
		return config.DefaultPlayAreaBounds()
	}
	return s.bounds.Bounds()
}

// isGameFrozen 是否有实体处于冻结状态
func isGameFrozen(em *ecs.EntityManager) bool {
	for _, id := range ecs.GetEntitiesWith1[*components.GameFreezeComponent](em) {
		freeze, ok := ecs.GetComponent[*components.GameFreezeComponent](em, id)
		if ok && freeze.IsFrozen {
			return true
		}
	}
	return false
}
