package systems

import (
	"log"

	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/ecs"
)

// DialogueSystem 对话系统（实现 Narrator）
//
// 状态机：Hidden → Typing → Waiting → (下一行 Typing | Hidden)
//
// 打字机节奏使用真实时间推进：对话开始时游戏时间被冻结（时间缩放设为 0），
// 结束时恢复为开始前的缩放值。
type DialogueSystem struct {
	entityManager *ecs.EntityManager
	entityID      ecs.EntityID

	// clock 为 nil 时不冻结游戏时间
	clock Clock

	// typeSpeed 每个字符的显示间隔（秒），<= 0 表示整行立即显示
	typeSpeed float64
}

// NewDialogueSystem 创建对话系统
func NewDialogueSystem(em *ecs.EntityManager, clock Clock, typeSpeed float64) *DialogueSystem {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.DialogueComponent{State: components.DialogueHidden})

	return &DialogueSystem{
		entityManager: em,
		entityID:      id,
		clock:         clock,
		typeSpeed:     typeSpeed,
	}
}

// StartSequence 开始显示一段对话
// 空序列立即结束；已有对话进行中时替换为新序列（保留最初保存的时间缩放）
func (s *DialogueSystem) StartSequence(name string, lines []components.DialogueLine) {
	dc := s.component()
	if dc == nil {
		return
	}

	if len(lines) == 0 {
		log.Printf("[DialogueSystem] Sequence %q is empty, nothing to show", name)
		return
	}

	if dc.State == components.DialogueHidden {
		dc.SavedTimeScale = 1
		if s.clock != nil {
			dc.SavedTimeScale = s.clock.TimeScale()
			s.clock.SetTimeScale(0)
		}
	} else {
		log.Printf("[DialogueSystem] Warning: sequence %q replaces active sequence %q", name, dc.Sequence)
	}

	dc.Sequence = name
	dc.Lines = append([]components.DialogueLine(nil), lines...)
	s.showLine(dc, 0)

	log.Printf("[DialogueSystem] Sequence %q started (%d lines)", name, len(lines))
}

// IsActive 是否有对话正在显示
func (s *DialogueSystem) IsActive() bool {
	dc := s.component()
	return dc != nil && dc.State != components.DialogueHidden
}

// Update 推进打字机效果
// realDt 为真实时间，不受时间缩放影响
func (s *DialogueSystem) Update(realDt float64) {
	dc := s.component()
	if dc == nil || dc.State != components.DialogueTyping {
		return
	}

	total := lineLength(dc)
	if s.typeSpeed <= 0 {
		dc.VisibleRunes = total
	} else {
		dc.TypeTimer += realDt
		for dc.TypeTimer >= s.typeSpeed && dc.VisibleRunes < total {
			dc.TypeTimer -= s.typeSpeed
			dc.VisibleRunes++
		}
	}

	if dc.VisibleRunes >= total {
		dc.VisibleRunes = total
		dc.State = components.DialogueWaiting
	}
}

// Advance 玩家推进对话
// 正在打字时立即显示整行；整行已显示时进入下一行，最后一行之后结束
func (s *DialogueSystem) Advance() {
	dc := s.component()
	if dc == nil {
		return
	}

	switch dc.State {
	case components.DialogueTyping:
		dc.VisibleRunes = lineLength(dc)
		dc.State = components.DialogueWaiting

	case components.DialogueWaiting:
		if dc.LineIndex+1 < len(dc.Lines) {
			s.showLine(dc, dc.LineIndex+1)
			return
		}
		s.end(dc)
	}
}

// Skip 立即结束当前对话
func (s *DialogueSystem) Skip() {
	dc := s.component()
	if dc == nil || dc.State == components.DialogueHidden {
		return
	}
	s.end(dc)
}

// CurrentLine 返回当前行以及已显示的文本
func (s *DialogueSystem) CurrentLine() (line components.DialogueLine, visible string, ok bool) {
	dc := s.component()
	if dc == nil || dc.State == components.DialogueHidden || dc.LineIndex >= len(dc.Lines) {
		return components.DialogueLine{}, "", false
	}
	line = dc.Lines[dc.LineIndex]
	runes := []rune(line.Text)
	n := dc.VisibleRunes
	if n > len(runes) {
		n = len(runes)
	}
	return line, string(runes[:n]), true
}

// State 当前对话状态
func (s *DialogueSystem) State() components.DialogueState {
	if dc := s.component(); dc != nil {
		return dc.State
	}
	return components.DialogueHidden
}

func (s *DialogueSystem) showLine(dc *components.DialogueComponent, index int) {
	dc.LineIndex = index
	dc.VisibleRunes = 0
	dc.TypeTimer = 0
	dc.State = components.DialogueTyping
}

func (s *DialogueSystem) end(dc *components.DialogueComponent) {
	log.Printf("[DialogueSystem] Sequence %q ended", dc.Sequence)

	saved := dc.SavedTimeScale
	dc.State = components.DialogueHidden
	dc.Lines = nil
	dc.LineIndex = 0
	dc.VisibleRunes = 0
	dc.TypeTimer = 0
	dc.Sequence = ""

	if s.clock != nil {
		s.clock.SetTimeScale(saved)
	}
}

func (s *DialogueSystem) component() *components.DialogueComponent {
	dc, ok := ecs.GetComponent[*components.DialogueComponent](s.entityManager, s.entityID)
	if !ok {
		return nil
	}
	return dc
}

func lineLength(dc *components.DialogueComponent) int {
	if dc.LineIndex >= len(dc.Lines) {
		return 0
	}
	return len([]rune(dc.Lines[dc.LineIndex].Text))
}
