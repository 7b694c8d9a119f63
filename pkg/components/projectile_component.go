package components

// ProjectileComponent 弹幕子弹组件（纯数据）
//
// 生命周期:
//  1. ProjectilePool 初始化时为每个实体创建一次，Active=false
//  2. Spawn 时重新初始化全部字段，Active=true
//  3. Despawn 时清空 Sprite，Active=false，实体归还空闲列表
//
// 不变式: Active 为 true 时 DirX/DirY 构成单位向量，Speed 与 Damage 非负
type ProjectileComponent struct {
	DirX   float64 // 方向 X 分量（单位向量）
	DirY   float64 // 方向 Y 分量（单位向量）
	Speed  float64 // 速度（世界单位/秒）
	Damage float64 // 伤害值

	// Sprite 精灵句柄（由表现层解释，核心逻辑不关心其含义）
	Sprite string

	// Active 是否处于活动集合中
	Active bool

	// Age 自 Spawn 以来经过的游戏时间（秒）
	Age float64
}
