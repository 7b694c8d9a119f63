package patterns

import (
	"math"

	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/utils"
)

// RotatingRadialPattern 旋转花形图案
// 每轮沿圆周均匀发射 Petals 颗子弹，整圈朝向随时间旋转
type RotatingRadialPattern struct {
	Rate          float64 // 发射间隔（秒）
	Damage        float64
	Speed         float64
	Petals        float64 // 花瓣数，小数部分被忽略；< 1 时不发射
	RotationSpeed float64 // 度/秒
	Sprite        string
}

// FireRate 实现 FiringPattern
func (p *RotatingRadialPattern) FireRate() float64 {
	return p.Rate
}

// PetalCount 实际发射的子弹数（截断小数部分）
func (p *RotatingRadialPattern) PetalCount() int {
	if p.Petals <= 0 || math.IsNaN(p.Petals) || math.IsInf(p.Petals, 0) {
		return 0
	}
	if p.Petals > config.MaxPatternBullets {
		return config.MaxPatternBullets
	}
	return int(math.Floor(p.Petals))
}

// Fire 实现 FiringPattern
//
// baseAngle = RotationSpeed × currentTime
// 第 i 颗子弹角度 = baseAngle + (360 / n) × i
func (p *RotatingRadialPattern) Fire(origin utils.Vec2, spawner Spawner, currentTime float64) {
	n := p.PetalCount()
	if spawner == nil || n == 0 {
		return
	}

	baseAngle := p.RotationSpeed * currentTime
	step := 360 / float64(n)

	for i := 0; i < n; i++ {
		angle := baseAngle + step*float64(i)
		if spawner.Spawn(origin, utils.DirectionFromDegrees(angle), p.Speed, p.Damage, p.Sprite) == ecs.InvalidEntity {
			return
		}
	}
}
