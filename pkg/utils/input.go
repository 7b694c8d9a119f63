// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MovementKeys 参与移动的按键及其日志名称
var MovementKeys = []struct {
	Key  ebiten.Key
	Name string
}{
	{ebiten.KeyW, "W"},
	{ebiten.KeyA, "A"},
	{ebiten.KeyS, "S"},
	{ebiten.KeyD, "D"},
	{ebiten.KeyArrowUp, "Up"},
	{ebiten.KeyArrowLeft, "Left"},
	{ebiten.KeyArrowDown, "Down"},
	{ebiten.KeyArrowRight, "Right"},
}

// MovementFromKeys 由方向键状态生成移动方向（未归一化）
// 相反方向同时按下时互相抵消
func MovementFromKeys(up, down, left, right bool) Vec2 {
	var v Vec2
	if up {
		v.Y++
	}
	if down {
		v.Y--
	}
	if left {
		v.X--
	}
	if right {
		v.X++
	}
	return v
}

// MovementInput 读取当前帧的 WASD / 方向键状态
func MovementInput() Vec2 {
	return MovementFromKeys(
		ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	)
}

// IsAdvancePressed 推进对话：空格、回车、鼠标左键或触摸
func IsAdvancePressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return true
	}
	if len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		return true
	}
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

// IsSkipPressed 跳过对话：Esc
func IsSkipPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}
