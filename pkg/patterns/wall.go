package patterns

import (
	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/utils"
)

// WallPattern 弹幕墙
// 每轮沿垂直于发射方向的直线等距排列 Count 颗平行子弹，中心对准原点
type WallPattern struct {
	Rate    float64
	Damage  float64
	Speed   float64
	Count   int
	Spacing float64 // 相邻子弹间距（世界单位）
	Angle   float64 // 发射方向（度）
	Sprite  string
}

// FireRate 实现 FiringPattern
func (p *WallPattern) FireRate() float64 {
	return p.Rate
}

// Fire 实现 FiringPattern
// 方向固定，与 currentTime 无关
func (p *WallPattern) Fire(origin utils.Vec2, spawner Spawner, currentTime float64) {
	if spawner == nil || p.Count <= 0 {
		return
	}

	count := min(p.Count, config.MaxPatternBullets)
	dir := utils.DirectionFromDegrees(p.Angle)
	side := utils.DirectionFromDegrees(p.Angle + 90)
	half := float64(count-1) / 2

	for i := 0; i < count; i++ {
		offset := side.Scale((float64(i) - half) * p.Spacing)
		if spawner.Spawn(origin.Add(offset), dir, p.Speed, p.Damage, p.Sprite) == ecs.InvalidEntity {
			return
		}
	}
}
