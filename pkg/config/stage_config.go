package config

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/gonewx/fouhou/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// 图案类型
const (
	PatternTypeRotatingRadial = "rotating_radial"
	PatternTypeWall           = "wall"
	PatternTypeSpiral         = "spiral"
)

// MaxPatternBullets 单个图案每轮最多发射的子弹数，超出部分被钳制
const MaxPatternBullets = 512

// ValidSeconds 时间参数是否有效（有限且非负）
// NaN 与无穷大会让计时器永远无法到期
func ValidSeconds(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// StageConfig 关卡配置数据结构
// 一个文件描述一个关卡：图案库、对话库以及按顺序执行的图案组
type StageConfig struct {
	ID        string                      `yaml:"id"`        // 关卡ID，如 "stage-1"
	Name      string                      `yaml:"name"`      // 关卡名称
	Patterns  map[string]PatternConfig    `yaml:"patterns"`  // 图案库：名称 -> 图案参数
	Dialogues map[string]DialogueSequence `yaml:"dialogues"` // 对话库：名称 -> 对话序列
	Groups    []PatternGroupConfig        `yaml:"groups"`    // 图案组列表，严格按顺序执行

	// Diagnostics 加载时发现的数据问题（不会导致加载失败）
	Diagnostics []string `yaml:"-"`
}

// PatternConfig 发射图案参数（同一配置下不可变）
type PatternConfig struct {
	Type          string  `yaml:"type"`          // 图案类型："rotating_radial", "wall", "spiral"
	FireRate      float64 `yaml:"fireRate"`      // 两次发射之间的间隔（秒）
	Damage        float64 `yaml:"damage"`        // 伤害
	Speed         float64 `yaml:"speed"`         // 子弹速度（世界单位/秒）
	Petals        float64 `yaml:"petals"`        // 每轮发射的子弹数（小数部分被忽略）
	RotationSpeed float64 `yaml:"rotationSpeed"` // 整体旋转速度（度/秒）
	Sprite        string  `yaml:"sprite"`        // 精灵句柄

	// wall 专用
	Count   int     `yaml:"count"`   // 子弹数量
	Spacing float64 `yaml:"spacing"` // 子弹间距（世界单位）
	Angle   float64 `yaml:"angle"`   // 发射方向（度）
}

// DialogueSequence 对话序列
type DialogueSequence struct {
	Lines []DialogueLineConfig `yaml:"lines"`
}

// DialogueLineConfig 单行对话
type DialogueLineConfig struct {
	Speaker  string `yaml:"speaker"`
	Text     string `yaml:"text"`
	Portrait string `yaml:"portrait"` // 可选
}

// PatternGroupConfig 图案组
// 组内所有图案并行运行；组与组之间不重叠
type PatternGroupConfig struct {
	GroupDelay float64            `yaml:"groupDelay"` // 启动本组前的等待时间（秒）
	Dialogue   string             `yaml:"dialogue"`   // 可选：本组结束且子弹清空后显示的对话名称
	Patterns   []StageEntryConfig `yaml:"patterns"`   // 组内图案
}

// StageEntryConfig 组内的一个图案条目
type StageEntryConfig struct {
	Pattern    string  `yaml:"pattern"`    // 图案库中的名称
	Duration   float64 `yaml:"duration"`   // 图案持续时间（秒）
	StartDelay float64 `yaml:"startDelay"` // 组内延迟启动（秒）
}

// LoadStageConfig 从嵌入资源（或磁盘）加载关卡配置
//
// 参数：
//
//	path - 关卡配置文件路径，如 "data/stages/stage-1.yaml"
//
// 返回：
//
//	*StageConfig - 解析后的关卡配置（含诊断信息）
//	error - 仅在文件读取或 YAML 语法错误时返回
func LoadStageConfig(path string) (*StageConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage config file %s: %w", path, err)
	}
	return ParseStageConfig(data, path)
}

// ParseStageConfig 解析关卡配置
// 语义问题（负持续时间、未知图案引用等）只记录诊断信息，不返回错误
func ParseStageConfig(data []byte, source string) (*StageConfig, error) {
	var stage StageConfig
	if err := yaml.Unmarshal(data, &stage); err != nil {
		return nil, fmt.Errorf("failed to parse stage config YAML from %s: %w", source, err)
	}

	applyStageDefaults(&stage, source)
	stage.Diagnostics = validateStageConfig(&stage)

	for _, d := range stage.Diagnostics {
		log.Printf("[StageConfig] %s: %s", stage.ID, d)
	}

	return &stage, nil
}

// applyStageDefaults 为缺失的可选字段设置默认值
func applyStageDefaults(stage *StageConfig, source string) {
	if stage.ID == "" {
		stage.ID = source
	}
	if stage.Name == "" {
		stage.Name = stage.ID
	}
	if stage.Patterns == nil {
		stage.Patterns = map[string]PatternConfig{}
	}
	if stage.Dialogues == nil {
		stage.Dialogues = map[string]DialogueSequence{}
	}

	for name, p := range stage.Patterns {
		if p.Type == "" {
			p.Type = PatternTypeRotatingRadial
		}
		if p.Type == PatternTypeWall && p.Spacing == 0 {
			p.Spacing = 0.5
		}
		stage.Patterns[name] = p
	}
}

// validateStageConfig 检查关卡配置的合法性，返回诊断信息
// 有问题的条目在构建关卡计划时会被跳过或钳制
func validateStageConfig(stage *StageConfig) []string {
	var diags []string

	// 按名称排序，保证诊断输出稳定
	names := make([]string, 0, len(stage.Patterns))
	for name := range stage.Patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := stage.Patterns[name]
		if !IsKnownPatternType(p.Type) {
			diags = append(diags, fmt.Sprintf("pattern %q: unknown type %q", name, p.Type))
		}
		if !ValidSeconds(p.FireRate) || p.FireRate == 0 {
			diags = append(diags, fmt.Sprintf("pattern %q: fireRate %.3f, clamped to once per tick", name, p.FireRate))
		}
		if p.Petals > MaxPatternBullets || p.Count > MaxPatternBullets {
			diags = append(diags, fmt.Sprintf("pattern %q: bullet count clamped to %d", name, MaxPatternBullets))
		}
		if p.Speed < 0 {
			diags = append(diags, fmt.Sprintf("pattern %q: speed cannot be negative, got %.3f", name, p.Speed))
		}
		if p.Damage < 0 {
			diags = append(diags, fmt.Sprintf("pattern %q: damage cannot be negative, got %.3f", name, p.Damage))
		}
	}

	for i, group := range stage.Groups {
		if !ValidSeconds(group.GroupDelay) {
			diags = append(diags, fmt.Sprintf("group %d: groupDelay must be finite and non-negative, got %.3f", i, group.GroupDelay))
		}
		if group.Dialogue != "" {
			if _, ok := stage.Dialogues[group.Dialogue]; !ok {
				diags = append(diags, fmt.Sprintf("group %d: unknown dialogue %q", i, group.Dialogue))
			}
		}
		for j, entry := range group.Patterns {
			if entry.Pattern == "" {
				diags = append(diags, fmt.Sprintf("group %d, entry %d: pattern reference is required", i, j))
			} else if _, ok := stage.Patterns[entry.Pattern]; !ok {
				diags = append(diags, fmt.Sprintf("group %d, entry %d: unknown pattern %q", i, j, entry.Pattern))
			}
			if !ValidSeconds(entry.Duration) {
				diags = append(diags, fmt.Sprintf("group %d, entry %d: duration must be finite and non-negative, got %.3f", i, j, entry.Duration))
			}
			if !ValidSeconds(entry.StartDelay) {
				diags = append(diags, fmt.Sprintf("group %d, entry %d: startDelay must be finite and non-negative, got %.3f", i, j, entry.StartDelay))
			}
		}
	}

	return diags
}

// IsKnownPatternType 检查图案类型是否受支持
func IsKnownPatternType(t string) bool {
	switch t {
	case PatternTypeRotatingRadial, PatternTypeWall, PatternTypeSpiral:
		return true
	}
	return false
}
