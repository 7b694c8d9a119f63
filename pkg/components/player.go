package components

// PlayerComponent 玩家心脏
type PlayerComponent struct {
	Speed     float64 // 移动速度（世界单位/秒）
	HitRadius float64 // 与子弹的碰撞半径
}
