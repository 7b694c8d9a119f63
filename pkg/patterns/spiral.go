package patterns

import (
	"math"

	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/utils"
)

// SpiralPattern 螺旋图案
// 每轮每条旋臂只发射一颗子弹，旋臂角度随时间旋转，连续发射形成螺旋
type SpiralPattern struct {
	Rate          float64
	Damage        float64
	Speed         float64
	Arms          float64 // 旋臂数，小数部分被忽略；< 1 时按 1 条处理
	RotationSpeed float64 // 度/秒
	Sprite        string
}

// FireRate 实现 FiringPattern
func (p *SpiralPattern) FireRate() float64 {
	return p.Rate
}

// Fire 实现 FiringPattern
func (p *SpiralPattern) Fire(origin utils.Vec2, spawner Spawner, currentTime float64) {
	if spawner == nil {
		return
	}

	arms := 1
	switch {
	case p.Arms > config.MaxPatternBullets:
		arms = config.MaxPatternBullets
	case p.Arms >= 1:
		arms = int(math.Floor(p.Arms))
	}

	base := p.RotationSpeed * currentTime
	step := 360 / float64(arms)
	for i := 0; i < arms; i++ {
		if spawner.Spawn(origin, utils.DirectionFromDegrees(base+step*float64(i)), p.Speed, p.Damage, p.Sprite) == ecs.InvalidEntity {
			return
		}
	}
}
