package utils

import (
	"fmt"
	"math"
	"strconv"
)

// minScoreDigits 分数显示的最小位数（不足补零）
const minScoreDigits = 8

// FormatTime 将秒数格式化为 "MM:SS"
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatScore 将分数格式化为至少 8 位的补零字符串，超出时按实际位数显示
func FormatScore(score int) string {
	width := len(strconv.Itoa(score))
	if width < minScoreDigits {
		width = minScoreDigits
	}
	return fmt.Sprintf("%0*d", width, score)
}
