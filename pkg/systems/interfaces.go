package systems

import (
	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/patterns"
)

//go:generate go tool mockgen -destination=./mocks/collaborators_mock.go -package=mocks . Narrator,ScoreNotifier

// ExpiryNotifier 子弹过期通知（越界或被强制转换）
type ExpiryNotifier interface {
	NotifyProjectileExpired(count int)
}

// ScoreNotifier 计分协作者
// 所有通知都是单向的，编排器从不读取计分状态
type ScoreNotifier interface {
	ExpiryNotifier

	NotifyStageStarted(stageIndex int)
	NotifyGroupStarted(stageIndex, groupIndex int)
	NotifyPatternCompleted(stageIndex, groupIndex, patternIndex int)
	NotifyGroupCompleted(stageIndex, groupIndex int, isLastStage, isLastGroup bool)
	NotifyAllGroupsCompleted(stageIndex int)
	NotifyStageCompleted(stageIndex int)
	NotifyGameCompleted()
}

// Narrator 叙事协作者
// 编排器在每次门控转换时调用一次 StartSequence，之后每帧轮询 IsActive
type Narrator interface {
	StartSequence(name string, lines []components.DialogueLine)
	IsActive() bool
}

// BoundsProvider 游戏区域边界
type BoundsProvider interface {
	Bounds() config.PlayAreaBounds
}

// Clock 全局时间缩放（对话期间冻结游戏时间）
type Clock interface {
	TimeScale() float64
	SetTimeScale(scale float64)
}

// ProjectileTracker 编排器需要的子弹池能力
type ProjectileTracker interface {
	patterns.Spawner
	ActiveCount() int
	ForceExpireAll() int
}

// StaticBounds 固定边界
type StaticBounds config.PlayAreaBounds

// Bounds 实现 BoundsProvider
func (b StaticBounds) Bounds() config.PlayAreaBounds {
	return config.PlayAreaBounds(b)
}
