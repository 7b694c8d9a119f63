package systems

import (
	"log"
	"math"

	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/entities"
	"github.com/gonewx/fouhou/pkg/utils"
)

// PlayerSystem 玩家心脏：移动、与子弹的碰撞、死亡冻结
type PlayerSystem struct {
	entityManager *ecs.EntityManager
	pool          *entities.ProjectilePool
	health        *HealthSystem
	bounds        BoundsProvider

	playerID ecs.EntityID
}

// NewPlayerSystem 创建玩家系统并生成玩家实体
//
// 参数：
//   - em: 实体管理器
//   - pool: 子弹池（碰撞检测）
//   - health: 生命值系统
//   - bounds: 移动范围，可为 nil
//   - cfg: 玩家配置
func NewPlayerSystem(em *ecs.EntityManager, pool *entities.ProjectilePool, health *HealthSystem, bounds BoundsProvider, cfg config.PlayerConfig) *PlayerSystem {
	startY := config.DefaultPlayerStartY
	if cfg.StartY != nil {
		startY = *cfg.StartY
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: 0, Y: startY})
	ecs.AddComponent(em, id, &components.PlayerComponent{Speed: cfg.Speed, HitRadius: cfg.HitRadius})
	ecs.AddComponent(em, id, &components.HealthComponent{CurrentHealth: cfg.MaxHealth, MaxHealth: cfg.MaxHealth})

	log.Printf("[PlayerSystem] Player created at (0, %.2f) with %.0f health", startY, cfg.MaxHealth)

	return &PlayerSystem{
		entityManager: em,
		pool:          pool,
		health:        health,
		bounds:        bounds,
		playerID:      id,
	}
}

// Update 移动玩家并处理子弹碰撞
// move 为输入方向（不要求单位长度），返回本帧是否受击以及是否死亡
func (s *PlayerSystem) Update(dt float64, move utils.Vec2) (hit bool, died bool) {
	if isGameFrozen(s.entityManager) {
		return false, false
	}

	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.playerID)
	if !ok {
		return false, false
	}
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerID)
	if !ok {
		return false, false
	}

	if move.Length() > 0 {
		step := move.Normalized().Scale(player.Speed * dt)
		b := s.currentBounds()
		pos.X = clamp(pos.X+step.X, b.Left, b.Right)
		pos.Y = clamp(pos.Y+step.Y, b.Bottom, b.Top)
	}

	for _, id := range s.pool.Active() {
		proj, ppos, ok := s.pool.Get(id)
		if !ok {
			continue
		}
		if math.Hypot(ppos.X-pos.X, ppos.Y-pos.Y) > player.HitRadius {
			continue
		}

		// 命中的子弹直接回收，不计分
		_ = s.pool.Despawn(id)
		hit = true

		applied, dead := s.health.ApplyDamage(s.playerID, proj.Damage)
		if applied > 0 {
			log.Printf("[PlayerSystem] Hit for %.1f damage", applied)
		}
		if dead {
			s.freeze()
			return true, true
		}
	}

	return hit, false
}

// freeze 玩家死亡，冻结游戏
func (s *PlayerSystem) freeze() {
	if ecs.HasComponent[*components.GameFreezeComponent](s.entityManager, s.playerID) {
		return
	}
	ecs.AddComponent(s.entityManager, s.playerID, &components.GameFreezeComponent{IsFrozen: true})
	log.Printf("[PlayerSystem] Player died, game frozen")
}

func (s *PlayerSystem) currentBounds() config.PlayAreaBounds {
	if s.bounds == nil {
		return config.DefaultPlayAreaBounds()
	}
	return s.bounds.Bounds()
}

// PlayerID 玩家实体
func (s *PlayerSystem) PlayerID() ecs.EntityID {
	return s.playerID
}

// Position 玩家位置
func (s *PlayerSystem) Position() utils.Vec2 {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, s.playerID)
	if !ok {
		return utils.Vec2{}
	}
	return utils.Vec2{X: pos.X, Y: pos.Y}
}

// Health 当前与最大生命值
func (s *PlayerSystem) Health() (current, maxHealth float64) {
	h, ok := ecs.GetComponent[*components.HealthComponent](s.entityManager, s.playerID)
	if !ok {
		return 0, 0
	}
	return h.CurrentHealth, h.MaxHealth
}

// IsDead 玩家是否已死亡
func (s *PlayerSystem) IsDead() bool {
	current, _ := s.Health()
	return current <= 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
