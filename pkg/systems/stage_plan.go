package systems

import (
	"fmt"
	"log"

	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/patterns"
)

// StagePlan 可执行的关卡计划（由 StageConfig 解析而来）
type StagePlan struct {
	ID     string
	Name   string
	Groups []GroupPlan
}

// GroupPlan 图案组计划
type GroupPlan struct {
	Delay float64

	// Dialogue 本组结束后的对话名称，空表示无对话
	Dialogue      string
	DialogueLines []components.DialogueLine

	Entries []EntryPlan
}

// EntryPlan 组内的一个图案条目
type EntryPlan struct {
	Name       string
	Pattern    patterns.FiringPattern
	Duration   float64
	StartDelay float64
}

// HasDialogue 本组结束后是否需要显示对话
func (g GroupPlan) HasDialogue() bool {
	return g.Dialogue != ""
}

// BuildStagePlan 将关卡配置解析为可执行计划
//
// 有问题的条目被跳过并产生诊断信息，从不返回错误：
//   - 空的或未知的图案引用
//   - 图案参数非法（负速度、负伤害、未知类型）
//   - 负的或非有限（NaN、无穷大）的持续时间或启动延迟
//
// 负的或非有限的组延迟被钳制为 0；未知的对话引用被忽略。
func BuildStagePlan(cfg *config.StageConfig) (*StagePlan, []string) {
	if cfg == nil {
		return &StagePlan{}, []string{"stage config is nil"}
	}

	plan := &StagePlan{
		ID:     cfg.ID,
		Name:   cfg.Name,
		Groups: make([]GroupPlan, 0, len(cfg.Groups)),
	}

	var diags []string
	skip := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		diags = append(diags, msg)
		log.Printf("[StagePlan] %s: %s", cfg.ID, msg)
	}

	// 同一图案在多个条目中复用同一个实例（图案无内部状态）
	built := make(map[string]patterns.FiringPattern, len(cfg.Patterns))

	for gi, group := range cfg.Groups {
		gp := GroupPlan{Delay: group.GroupDelay}
		if !config.ValidSeconds(gp.Delay) {
			skip("group %d: invalid groupDelay %.3f clamped to 0", gi, group.GroupDelay)
			gp.Delay = 0
		}

		if group.Dialogue != "" {
			seq, ok := cfg.Dialogues[group.Dialogue]
			if !ok {
				skip("group %d: dialogue %q not found, ignored", gi, group.Dialogue)
			} else {
				gp.Dialogue = group.Dialogue
				gp.DialogueLines = make([]components.DialogueLine, 0, len(seq.Lines))
				for _, line := range seq.Lines {
					gp.DialogueLines = append(gp.DialogueLines, components.DialogueLine{
						Speaker:  line.Speaker,
						Text:     line.Text,
						Portrait: line.Portrait,
					})
				}
			}
		}

		for ei, entry := range group.Patterns {
			if entry.Pattern == "" {
				skip("group %d, entry %d: skipped, no pattern reference", gi, ei)
				continue
			}
			if !config.ValidSeconds(entry.Duration) {
				skip("group %d, entry %d: skipped, invalid duration %.3f", gi, ei, entry.Duration)
				continue
			}
			if !config.ValidSeconds(entry.StartDelay) {
				skip("group %d, entry %d: skipped, invalid startDelay %.3f", gi, ei, entry.StartDelay)
				continue
			}

			pattern, ok := built[entry.Pattern]
			if !ok {
				pc, found := cfg.Patterns[entry.Pattern]
				if !found {
					skip("group %d, entry %d: skipped, unknown pattern %q", gi, ei, entry.Pattern)
					continue
				}
				p, err := patterns.FromConfig(pc)
				if err != nil {
					skip("group %d, entry %d: skipped, pattern %q: %v", gi, ei, entry.Pattern, err)
					continue
				}
				built[entry.Pattern] = p
				pattern = p
			}

			gp.Entries = append(gp.Entries, EntryPlan{
				Name:       entry.Pattern,
				Pattern:    pattern,
				Duration:   entry.Duration,
				StartDelay: entry.StartDelay,
			})
		}

		plan.Groups = append(plan.Groups, gp)
	}

	return plan, diags
}

// LoadStagePlans 按顺序加载关卡文件并构建计划
// 文件读取或 YAML 语法错误会中止加载
func LoadStagePlans(paths []string) ([]*StagePlan, error) {
	plans := make([]*StagePlan, 0, len(paths))
	for _, path := range paths {
		cfg, err := config.LoadStageConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load stage %s: %w", path, err)
		}
		plan, _ := BuildStagePlan(cfg)
		plans = append(plans, plan)
	}
	return plans, nil
}
