package systems

import (
	"math"

	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/ecs"
)

// TakeDamage 有下界的减法：max(0, health - damage)
// 负伤害按 0 处理
func TakeDamage(health, damage float64) float64 {
	if damage < 0 || math.IsNaN(damage) {
		damage = 0
	}
	return math.Max(0, health-damage)
}

// HealthSystem 生命值与受击护盾
//
// 受击后获得 shieldDuration 秒护盾，护盾期间伤害视为 0
type HealthSystem struct {
	entityManager  *ecs.EntityManager
	shieldDuration float64
}

// NewHealthSystem 创建生命值系统
func NewHealthSystem(em *ecs.EntityManager, shieldDuration float64) *HealthSystem {
	return &HealthSystem{
		entityManager:  em,
		shieldDuration: shieldDuration,
	}
}

// Update 按游戏时间倒计时护盾
func (s *HealthSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.HealthComponent](s.entityManager) {
		health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
		if !ok || health.ShieldRemaining <= 0 {
			continue
		}
		health.ShieldRemaining = math.Max(0, health.ShieldRemaining-dt)
	}
}

// ApplyDamage 对实体造成伤害
//
// 返回：
//   - applied: 实际扣除的生命值（护盾期间为 0）
//   - dead: 生命值是否归零
func (s *HealthSystem) ApplyDamage(id ecs.EntityID, damage float64) (applied float64, dead bool) {
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
	if !ok {
		return 0, false
	}

	if health.ShieldRemaining > 0 {
		return 0, health.CurrentHealth <= 0
	}

	before := health.CurrentHealth
	health.CurrentHealth = TakeDamage(health.CurrentHealth, damage)
	health.ShieldRemaining = s.shieldDuration

	return before - health.CurrentHealth, health.CurrentHealth <= 0
}

// IsShielded 护盾是否生效
func (s *HealthSystem) IsShielded(id ecs.EntityID) bool {
	health, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, id)
	return ok && health.ShieldRemaining > 0
}
