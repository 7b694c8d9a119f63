package components

import "github.com/gonewx/fouhou/pkg/patterns"

// SequencerState 关卡编排器状态
type SequencerState int

const (
	// SequencerAwaitingGroup 等待启动下一个图案组
	SequencerAwaitingGroup SequencerState = iota

	// SequencerGroupDelay 图案组启动前的延迟
	SequencerGroupDelay

	// SequencerGroupRunning 图案组中的图案并行运行中
	SequencerGroupRunning

	// SequencerAwaitingBulletsClear 等待场上子弹清空后显示对话
	SequencerAwaitingBulletsClear

	// SequencerDialogueActive 对话进行中，关卡推进完全暂停
	SequencerDialogueActive

	// SequencerStageClearPending 所有组已完成，等待最后一次发射后的安全时间
	SequencerStageClearPending

	// SequencerStageComplete 关卡完成
	SequencerStageComplete
)

// String 返回 SequencerState 的字符串表示
func (s SequencerState) String() string {
	switch s {
	case SequencerAwaitingGroup:
		return "AwaitingGroup"
	case SequencerGroupDelay:
		return "GroupDelay"
	case SequencerGroupRunning:
		return "GroupRunning"
	case SequencerAwaitingBulletsClear:
		return "AwaitingBulletsClear"
	case SequencerDialogueActive:
		return "DialogueActive"
	case SequencerStageClearPending:
		return "StageClearPending"
	case SequencerStageComplete:
		return "StageComplete"
	default:
		return "Unknown"
	}
}

// RunningPattern 正在运行的图案实例（临时状态）
// 图案组启动时创建，Timer >= Duration+StartDelay 时移除
type RunningPattern struct {
	Name       string
	Pattern    patterns.FiringPattern
	Duration   float64
	StartDelay float64

	Timer      float64 // 自实例创建以来经过的时间
	FireTimer  float64 // 发射累加器，达到发射间隔后清零
	DelayTimer float64 // 剩余启动延迟

	StageIndex   int // 诊断用
	GroupIndex   int
	PatternIndex int
}

// StageSequencerComponent 关卡编排器组件（纯数据）
// 存储 StageSequencerSystem 的全部状态，所有转换逻辑在系统中实现
type StageSequencerComponent struct {
	State SequencerState

	// CurrentStage 当前关卡索引（0-based）
	CurrentStage int

	// NextGroupIndex 下一个要启动的图案组索引
	NextGroupIndex int

	// ActiveGroupIndex 最近一次启动的图案组索引，-1 表示尚未启动
	ActiveGroupIndex int

	// Running 当前组中正在运行的图案实例
	Running []*RunningPattern

	// GroupDelayTimer 图案组启动延迟剩余时间
	GroupDelayTimer float64

	// BulletsCleared 是否已观察到子弹清空
	BulletsCleared bool

	// ClearedFor 子弹持续清空的时间
	ClearedFor float64

	// HasFired 本关卡是否发射过子弹
	HasFired bool

	// SinceLastFire 距本关卡最后一次发射的游戏时间
	SinceLastFire float64

	// StageTime 本关卡已经过的游戏时间
	StageTime float64

	// GameComplete 所有关卡都已完成
	GameComplete bool
}
