package utils

import "math"

// Vec2 二维向量（世界坐标，单位：世界单位）
type Vec2 struct {
	X, Y float64
}

// Add 向量相加
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale 向量数乘
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Length 向量长度
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalized 返回单位向量
// 零向量返回 (1, 0)，保证活动子弹的方向始终为单位长度
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec2{X: 1, Y: 0}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// DirectionFromDegrees 由角度（度）生成单位方向向量
// 0° 指向 +X，逆时针为正
func DirectionFromDegrees(deg float64) Vec2 {
	rad := deg * math.Pi / 180
	return Vec2{X: math.Cos(rad), Y: math.Sin(rad)}
}

// AngleDegrees 返回向量相对 +X 轴的角度，范围 [0, 360)
func (v Vec2) AngleDegrees() float64 {
	deg := math.Atan2(v.Y, v.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}
