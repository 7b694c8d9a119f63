package components

// PositionComponent 存储实体的世界坐标
// 坐标原点位于游戏区域中心，+X 向右，+Y 向上（世界单位）
type PositionComponent struct {
	X float64
	Y float64
}
