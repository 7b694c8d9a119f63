package components

// DialogueState 对话状态
type DialogueState int

const (
	// DialogueHidden 无对话
	DialogueHidden DialogueState = iota

	// DialogueTyping 打字机效果逐字显示中
	DialogueTyping

	// DialogueWaiting 当前行已完整显示，等待玩家推进
	DialogueWaiting
)

// String 返回 DialogueState 的字符串表示
func (s DialogueState) String() string {
	switch s {
	case DialogueHidden:
		return "Hidden"
	case DialogueTyping:
		return "Typing"
	case DialogueWaiting:
		return "Waiting"
	default:
		return "Unknown"
	}
}

// DialogueLine 单行对话
type DialogueLine struct {
	Speaker  string
	Text     string
	Portrait string // 头像精灵句柄，空表示不显示
}

// DialogueComponent 对话组件（纯数据）
//
// 生命周期:
//  1. DialogueSystem 创建实体时添加
//  2. StartSequence 填充 Lines 并进入 Typing
//  3. 最后一行推进后回到 Hidden，并恢复时间缩放
type DialogueComponent struct {
	// Sequence 对话序列名称（日志与诊断用）
	Sequence string

	Lines     []DialogueLine
	LineIndex int

	State DialogueState

	// VisibleRunes 当前行已显示的字符数（按 rune 计）
	VisibleRunes int

	// TypeTimer 打字机累加器（真实时间）
	TypeTimer float64

	// SavedTimeScale 对话开始前的时间缩放，结束时恢复
	SavedTimeScale float64
}
