package components

// GameFreezeComponent 游戏冻结组件
//
// 玩家心脏生命值归零时挂到玩家实体上，标记本局结束
//
// 系统行为：
// - ProjectileSystem: 检测到冻结时停止移动子弹
// - PlayerSystem: 停止处理移动与碰撞
// - App: 停止推进关卡编排器并结算分数
type GameFreezeComponent struct {
	IsFrozen bool // 是否已冻结（防止重复结算）
}
