package config

import (
	"fmt"

	"github.com/gonewx/fouhou/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultGameConfigPath 默认游戏配置文件路径
const DefaultGameConfigPath = "data/game.yaml"

// 默认值
const (
	DefaultPoolSize          = 4096
	DefaultSafeMargin        = 5.0  // 最后一次发射后等待多久结束关卡（秒）
	DefaultDialogueSafeDelay = 2.0  // 子弹清空后等待多久显示对话（秒）
	DefaultTypeSpeed         = 0.05 // 打字机每个字符的间隔（秒，真实时间）
	DefaultTickRate          = 60
	DefaultOriginY           = 2.5
	DefaultMaxHealth         = 3.0
	DefaultShieldDuration    = 2.0
	DefaultPlayerSpeed       = 5.0
	DefaultPlayerHitRadius   = 0.2
	DefaultPlayerStartY      = -3.0
)

// GameConfig 游戏全局配置
type GameConfig struct {
	PoolSize          int     `yaml:"poolSize"`          // 子弹池容量
	Debug             bool    `yaml:"debug"`             // 调试模式：子弹池重复释放直接 panic
	SafeMargin        float64 `yaml:"safeMargin"`        // 关卡结束安全时间（秒）
	DialogueSafeDelay float64 `yaml:"dialogueSafeDelay"` // 对话前安全延迟（秒）
	TypeSpeed         float64 `yaml:"typeSpeed"`         // 打字机速度（秒/字符）
	TickRate          int     `yaml:"tickRate"`          // 每秒逻辑帧数

	Origin OriginConfig   `yaml:"origin"` // 弹幕发射原点
	Bounds PlayAreaBounds `yaml:"bounds"` // 游戏区域边界

	Player PlayerConfig     `yaml:"player"`
	Score  ScoreConfig      `yaml:"score"`
	Submit SubmissionConfig `yaml:"submission"`
	Input  InputLogConfig   `yaml:"inputLog"`

	// Stages 关卡文件列表，按顺序执行
	Stages []string `yaml:"stages"`
}

// OriginConfig 发射原点（世界坐标）
type OriginConfig struct {
	X *float64 `yaml:"x"`
	Y *float64 `yaml:"y"`
}

// PlayerConfig 玩家心脏参数
type PlayerConfig struct {
	MaxHealth      float64  `yaml:"maxHealth"`
	ShieldDuration float64  `yaml:"shieldDuration"` // 受击后护盾持续时间（秒）
	Speed          float64  `yaml:"speed"`          // 移动速度（世界单位/秒）
	HitRadius      float64  `yaml:"hitRadius"`      // 碰撞半径
	StartY         *float64 `yaml:"startY"`         // 出生点 Y（X 固定为 0）
}

// ScoreConfig 计分规则
type ScoreConfig struct {
	Bullet         int `yaml:"bullet"`         // 每颗子弹过期/转换得分
	Pattern        int `yaml:"pattern"`        // 图案完成奖励
	GroupStageUnit int `yaml:"groupStageUnit"` // 组奖励：(stage+1) * groupStageUnit
	GroupUnit      int `yaml:"groupUnit"`      // 组奖励：(group+1) * groupUnit
	Stage          int `yaml:"stage"`          // 关卡奖励：stageNumber * stage
	GameCompletion int `yaml:"gameCompletion"` // 通关奖励
	Minute         int `yaml:"minute"`         // 每存活一分钟奖励
}

// SubmissionConfig 分数提交配置
type SubmissionConfig struct {
	APIBaseURL       string  `yaml:"apiBaseUrl"`
	GameID           string  `yaml:"gameId"`
	MaxRetries       int     `yaml:"maxRetries"`
	RetryDelay       float64 `yaml:"retryDelay"` // 秒，按尝试次数线性递增
	Timeout          float64 `yaml:"timeout"`    // 单次请求超时（秒）
	AutoSubmit       *bool   `yaml:"autoSubmit"`
	OnlyOnCompletion *bool   `yaml:"onlyOnCompletion"`
}

// InputLogConfig 输入日志配置
type InputLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "csv", "json", "txt"
	Dir     string `yaml:"dir"`
}

// LoadGameConfig 加载游戏配置
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config file %s: %w", path, err)
	}
	return ParseGameConfig(data, path)
}

// ParseGameConfig 解析游戏配置，应用默认值并验证
func ParseGameConfig(data []byte, source string) (*GameConfig, error) {
	var cfg GameConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config YAML from %s: %w", source, err)
	}

	ApplyGameDefaults(&cfg)

	if err := validateGameConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid game config in %s: %w", source, err)
	}

	return &cfg, nil
}

// DefaultGameConfig 返回全部使用默认值的配置
func DefaultGameConfig() *GameConfig {
	cfg := &GameConfig{}
	ApplyGameDefaults(cfg)
	return cfg
}

// ApplyGameDefaults 为缺失字段设置默认值
func ApplyGameDefaults(cfg *GameConfig) {
	if cfg.PoolSize == 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if cfg.SafeMargin == 0 {
		cfg.SafeMargin = DefaultSafeMargin
	}
	if cfg.DialogueSafeDelay == 0 {
		cfg.DialogueSafeDelay = DefaultDialogueSafeDelay
	}
	if cfg.TypeSpeed == 0 {
		cfg.TypeSpeed = DefaultTypeSpeed
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.Origin.X == nil {
		x := 0.0
		cfg.Origin.X = &x
	}
	if cfg.Origin.Y == nil {
		y := DefaultOriginY
		cfg.Origin.Y = &y
	}

	cfg.Bounds = cfg.Bounds.WithDefaults()

	if cfg.Player.MaxHealth == 0 {
		cfg.Player.MaxHealth = DefaultMaxHealth
	}
	if cfg.Player.ShieldDuration == 0 {
		cfg.Player.ShieldDuration = DefaultShieldDuration
	}
	if cfg.Player.Speed == 0 {
		cfg.Player.Speed = DefaultPlayerSpeed
	}
	if cfg.Player.HitRadius == 0 {
		cfg.Player.HitRadius = DefaultPlayerHitRadius
	}
	if cfg.Player.StartY == nil {
		y := DefaultPlayerStartY
		cfg.Player.StartY = &y
	}

	applyScoreDefaults(&cfg.Score)
	applySubmissionDefaults(&cfg.Submit)

	if cfg.Input.Format == "" {
		cfg.Input.Format = "csv"
	}
	if cfg.Input.Dir == "" {
		cfg.Input.Dir = "logs"
	}
}

// applyScoreDefaults 计分默认值（与原版规则一致）
func applyScoreDefaults(s *ScoreConfig) {
	if s.Bullet == 0 {
		s.Bullet = 100
	}
	if s.Pattern == 0 {
		s.Pattern = 50
	}
	if s.GroupStageUnit == 0 {
		s.GroupStageUnit = 100
	}
	if s.GroupUnit == 0 {
		s.GroupUnit = 50
	}
	if s.Stage == 0 {
		s.Stage = 500
	}
	if s.GameCompletion == 0 {
		s.GameCompletion = 10000
	}
	if s.Minute == 0 {
		s.Minute = 1000
	}
}

func applySubmissionDefaults(s *SubmissionConfig) {
	if s.APIBaseURL == "" {
		s.APIBaseURL = "https://api.fouhou.stoyanography.com/api"
	}
	if s.GameID == "" {
		s.GameID = "bullet-hell-v1"
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = 3
	}
	if s.RetryDelay == 0 {
		s.RetryDelay = 1
	}
	if s.Timeout == 0 {
		s.Timeout = 10
	}
	if s.AutoSubmit == nil {
		v := true
		s.AutoSubmit = &v
	}
	if s.OnlyOnCompletion == nil {
		v := true
		s.OnlyOnCompletion = &v
	}
}

// validateGameConfig 验证游戏配置
func validateGameConfig(cfg *GameConfig) error {
	if cfg.PoolSize < 0 {
		return fmt.Errorf("poolSize cannot be negative, got %d", cfg.PoolSize)
	}
	if cfg.SafeMargin < 0 {
		return fmt.Errorf("safeMargin cannot be negative, got %.3f", cfg.SafeMargin)
	}
	if cfg.DialogueSafeDelay < 0 {
		return fmt.Errorf("dialogueSafeDelay cannot be negative, got %.3f", cfg.DialogueSafeDelay)
	}
	if cfg.TypeSpeed < 0 {
		return fmt.Errorf("typeSpeed cannot be negative, got %.3f", cfg.TypeSpeed)
	}
	if cfg.TickRate < 0 {
		return fmt.Errorf("tickRate cannot be negative, got %d", cfg.TickRate)
	}
	if err := cfg.Bounds.Validate(); err != nil {
		return err
	}
	if cfg.Player.MaxHealth < 0 || cfg.Player.ShieldDuration < 0 || cfg.Player.Speed < 0 || cfg.Player.HitRadius < 0 {
		return fmt.Errorf("player maxHealth, shieldDuration, speed and hitRadius cannot be negative")
	}
	if cfg.Submit.MaxRetries < 0 {
		return fmt.Errorf("submission.maxRetries cannot be negative, got %d", cfg.Submit.MaxRetries)
	}

	validFormats := map[string]bool{"csv": true, "json": true, "txt": true}
	if !validFormats[cfg.Input.Format] {
		return fmt.Errorf("inputLog.format must be one of: csv, json, txt, got %q", cfg.Input.Format)
	}

	return nil
}
