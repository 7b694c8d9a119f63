package game

import (
	"math"
	"testing"
)

// TestClockAdvance 测试时间缩放对游戏时间的影响
func TestClockAdvance(t *testing.T) {
	c := NewClock()

	if dt := c.Advance(0.5); dt != 0.5 {
		t.Errorf("Expected gameDt 0.5 at scale 1, got %v", dt)
	}

	c.SetTimeScale(0)
	if dt := c.Advance(1.0); dt != 0 {
		t.Errorf("Expected gameDt 0 while frozen, got %v", dt)
	}

	c.SetTimeScale(2)
	if dt := c.Advance(0.25); dt != 0.5 {
		t.Errorf("Expected gameDt 0.5 at scale 2, got %v", dt)
	}

	if math.Abs(c.RealTime()-1.75) > 1e-9 {
		t.Errorf("Expected real time 1.75, got %v", c.RealTime())
	}
	if math.Abs(c.GameTime()-1.0) > 1e-9 {
		t.Errorf("Expected game time 1.0, got %v", c.GameTime())
	}
}

// TestClockClampsNegative 测试负数输入
func TestClockClampsNegative(t *testing.T) {
	c := NewClock()
	c.SetTimeScale(-3)
	if c.TimeScale() != 0 {
		t.Errorf("Expected negative scale clamped to 0, got %v", c.TimeScale())
	}

	c.SetTimeScale(1)
	if dt := c.Advance(-1); dt != 0 || c.RealTime() != 0 {
		t.Errorf("Expected negative realDt ignored, got dt=%v real=%v", dt, c.RealTime())
	}
}
