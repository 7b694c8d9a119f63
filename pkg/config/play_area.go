package config

import "fmt"

// 默认游戏区域边界（世界单位）
const (
	DefaultLeftBound   = -8.0
	DefaultRightBound  = 8.0
	DefaultTopBound    = 4.5
	DefaultBottomBound = -4.5
)

// PlayAreaBounds 游戏区域矩形
// 子弹离开该矩形即被回收
type PlayAreaBounds struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// DefaultPlayAreaBounds 返回默认边界：水平 ±8，垂直 ±4.5
func DefaultPlayAreaBounds() PlayAreaBounds {
	return PlayAreaBounds{
		Left:   DefaultLeftBound,
		Right:  DefaultRightBound,
		Top:    DefaultTopBound,
		Bottom: DefaultBottomBound,
	}
}

// WithDefaults 四个边界全为 0（未配置）时返回默认边界
func (b PlayAreaBounds) WithDefaults() PlayAreaBounds {
	if b == (PlayAreaBounds{}) {
		return DefaultPlayAreaBounds()
	}
	return b
}

// Validate 检查边界是否构成合法矩形
func (b PlayAreaBounds) Validate() error {
	if b.Left >= b.Right {
		return fmt.Errorf("bounds: left (%.2f) must be less than right (%.2f)", b.Left, b.Right)
	}
	if b.Bottom >= b.Top {
		return fmt.Errorf("bounds: bottom (%.2f) must be less than top (%.2f)", b.Bottom, b.Top)
	}
	return nil
}

// IsOutside 检查点是否位于矩形之外（边界上视为内部）
func (b PlayAreaBounds) IsOutside(x, y float64) bool {
	return x < b.Left || x > b.Right || y > b.Top || y < b.Bottom
}
