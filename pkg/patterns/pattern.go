// Package patterns 定义弹幕发射图案
//
// 所有图案都是其配置与 currentTime 的纯函数：Fire 不保存任何内部计数，
// 相位全部由 currentTime 推导，因此任意时间点的发射都可以重放。
package patterns

import (
	"fmt"
	"log"
	"math"

	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/utils"
)

// Spawner 子弹生成接口（由 ProjectilePool 实现）
// 池耗尽时返回 ecs.InvalidEntity；图案收到后立即结束本轮发射，
// 同一轮内池不会被释放，继续调用只会白白丢弃
type Spawner interface {
	Spawn(position, direction utils.Vec2, speed, damage float64, sprite string) ecs.EntityID
}

// FiringPattern 发射图案
type FiringPattern interface {
	// Fire 执行一轮发射，调用 Spawn 零次或多次
	Fire(origin utils.Vec2, spawner Spawner, currentTime float64)

	// FireRate 两轮发射之间的间隔（秒）
	// <= 0 表示每帧最多发射一次
	FireRate() float64
}

// FromConfig 根据配置创建图案
// 未知类型或非法参数返回错误，调用方应跳过引用它的条目。
// 非有限的发射间隔钳制为 0（每帧一次），子弹数钳制为 config.MaxPatternBullets。
func FromConfig(cfg config.PatternConfig) (FiringPattern, error) {
	if !finiteNonNegative(cfg.Speed) {
		return nil, fmt.Errorf("speed must be finite and non-negative, got %.3f", cfg.Speed)
	}
	if !finiteNonNegative(cfg.Damage) {
		return nil, fmt.Errorf("damage must be finite and non-negative, got %.3f", cfg.Damage)
	}
	if math.IsNaN(cfg.FireRate) || math.IsInf(cfg.FireRate, 0) {
		log.Printf("[Patterns] fireRate %.3f clamped to 0", cfg.FireRate)
		cfg.FireRate = 0
	}
	if cfg.Petals > config.MaxPatternBullets {
		log.Printf("[Patterns] petals %.0f clamped to %d", cfg.Petals, config.MaxPatternBullets)
		cfg.Petals = config.MaxPatternBullets
	}
	if cfg.Count > config.MaxPatternBullets {
		log.Printf("[Patterns] count %d clamped to %d", cfg.Count, config.MaxPatternBullets)
		cfg.Count = config.MaxPatternBullets
	}

	switch cfg.Type {
	case config.PatternTypeRotatingRadial, "":
		return &RotatingRadialPattern{
			Rate:          cfg.FireRate,
			Damage:        cfg.Damage,
			Speed:         cfg.Speed,
			Petals:        cfg.Petals,
			RotationSpeed: cfg.RotationSpeed,
			Sprite:        cfg.Sprite,
		}, nil
	case config.PatternTypeWall:
		return &WallPattern{
			Rate:    cfg.FireRate,
			Damage:  cfg.Damage,
			Speed:   cfg.Speed,
			Count:   cfg.Count,
			Spacing: cfg.Spacing,
			Angle:   cfg.Angle,
			Sprite:  cfg.Sprite,
		}, nil
	case config.PatternTypeSpiral:
		return &SpiralPattern{
			Rate:          cfg.FireRate,
			Damage:        cfg.Damage,
			Speed:         cfg.Speed,
			Arms:          cfg.Petals,
			RotationSpeed: cfg.RotationSpeed,
			Sprite:        cfg.Sprite,
		}, nil
	default:
		return nil, fmt.Errorf("unknown pattern type %q", cfg.Type)
	}
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
