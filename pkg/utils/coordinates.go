package utils

// Viewport 世界坐标与屏幕坐标的转换
//
// 世界坐标以游戏区域中心为原点，Y 轴向上；屏幕坐标以左上角为原点，Y 轴向下。
// 游戏区域按等比缩放填满屏幕，多余部分留在两侧。
type Viewport struct {
	ScreenWidth, ScreenHeight float64

	// 游戏区域（世界单位）
	Left, Right, Top, Bottom float64
}

// Scale 每个世界单位对应的像素数
func (v Viewport) Scale() float64 {
	w := v.Right - v.Left
	h := v.Top - v.Bottom
	if w <= 0 || h <= 0 {
		return 1
	}
	sx := v.ScreenWidth / w
	sy := v.ScreenHeight / h
	if sx < sy {
		return sx
	}
	return sy
}

// WorldToScreen 世界坐标 → 屏幕坐标
func (v Viewport) WorldToScreen(worldX, worldY float64) (screenX, screenY float64) {
	s := v.Scale()
	cx := (v.Left + v.Right) / 2
	cy := (v.Top + v.Bottom) / 2
	screenX = v.ScreenWidth/2 + (worldX-cx)*s
	screenY = v.ScreenHeight/2 - (worldY-cy)*s
	return screenX, screenY
}

// ScreenToWorld 屏幕坐标 → 世界坐标
func (v Viewport) ScreenToWorld(screenX, screenY float64) (worldX, worldY float64) {
	s := v.Scale()
	cx := (v.Left + v.Right) / 2
	cy := (v.Top + v.Bottom) / 2
	worldX = cx + (screenX-v.ScreenWidth/2)/s
	worldY = cy - (screenY-v.ScreenHeight/2)/s
	return worldX, worldY
}
