package game

// Clock 游戏时间与真实时间
//
// 游戏时间 = 真实时间 × 时间缩放。对话期间时间缩放为 0，
// 关卡编排和子弹使用游戏时间，打字机效果使用真实时间。
type Clock struct {
	timeScale float64
	gameTime  float64
	realTime  float64
}

// NewClock 创建时间缩放为 1 的时钟
func NewClock() *Clock {
	return &Clock{timeScale: 1}
}

// Advance 推进一帧，返回本帧的游戏时间增量
func (c *Clock) Advance(realDt float64) float64 {
	if realDt < 0 {
		realDt = 0
	}
	gameDt := realDt * c.timeScale
	c.realTime += realDt
	c.gameTime += gameDt
	return gameDt
}

// SetTimeScale 设置时间缩放（负数按 0 处理）
func (c *Clock) SetTimeScale(scale float64) {
	if scale < 0 {
		scale = 0
	}
	c.timeScale = scale
}

// TimeScale 当前时间缩放
func (c *Clock) TimeScale() float64 {
	return c.timeScale
}

// GameTime 累计游戏时间（秒）
func (c *Clock) GameTime() float64 {
	return c.gameTime
}

// RealTime 累计真实时间（秒）
func (c *Clock) RealTime() float64 {
	return c.realTime
}
