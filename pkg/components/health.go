package components

// HealthComponent 存储玩家心脏的生命值信息
type HealthComponent struct {
	CurrentHealth float64 // 当前生命值，永不小于 0
	MaxHealth     float64 // 最大生命值

	// ShieldRemaining 受击后护盾剩余时间（秒）
	// 大于 0 时受到的伤害视为 0
	ShieldRemaining float64
}
