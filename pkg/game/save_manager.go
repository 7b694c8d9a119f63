package game

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// PlayerProfile 玩家档案
type PlayerProfile struct {
	UserID    string    `yaml:"userId"`   // 随机生成的 UUID，首次启动时创建
	Username  string    `yaml:"username"` // 如 "Player_4821"
	HighScore int       `yaml:"highScore"`
	BestTime  float64   `yaml:"bestTime"` // 通关最短时间（秒），0 表示未通关
	Games     int       `yaml:"games"`    // 已完成的局数
	CreatedAt time.Time `yaml:"createdAt"`
}

// PendingSubmission 提交失败、等待重试的分数
type PendingSubmission struct {
	ID        string    `yaml:"id"` // 幂等键
	Score     int       `yaml:"score"`
	CreatedAt time.Time `yaml:"createdAt"`
}

// saveData gdata 中存储的全部数据
type saveData struct {
	Profile PlayerProfile       `yaml:"profile"`
	Pending []PendingSubmission `yaml:"pending"`
}

// 存储路径常量
const (
	saveObject   = "save"
	saveProperty = "player"
)

// SaveManager 玩家档案与待提交分数的持久化
//
// 数据以 YAML 格式存储在 gdata 中。gdataManager 为 nil 时进入降级模式：
// 所有数据只保存在内存中，Save 不报错。
// 分数提交在后台 goroutine 中修改待提交队列，所有方法都是并发安全的。
type SaveManager struct {
	mu           sync.Mutex
	gdataManager *gdata.Manager
	data         *saveData
}

// NewSaveManager 创建保存管理器并加载已有数据
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//
// 返回：
//   - *SaveManager: 保存管理器实例（加载失败时使用新档案）
func NewSaveManager(gdataManager *gdata.Manager) *SaveManager {
	sm := &SaveManager{
		gdataManager: gdataManager,
		data:         &saveData{Profile: newProfile()},
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SaveManager] Warning: Failed to load save data: %v (using a new profile)", err)
	}

	// 首次启动，立即持久化生成的身份
	if err := sm.Save(); err != nil {
		log.Printf("[SaveManager] Warning: Failed to save profile: %v", err)
	}

	return sm
}

// OpenStorage 打开 gdata 存储，失败时返回 nil（降级模式）
func OpenStorage(appName string) *gdata.Manager {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SaveManager] Warning: gdata unavailable: %v (memory-only mode)", err)
		return nil
	}
	return m
}

func newProfile() PlayerProfile {
	return PlayerProfile{
		UserID:    uuid.NewString(),
		Username:  fmt.Sprintf("Player_%d", 1000+rand.Intn(9000)),
		CreatedAt: time.Now(),
	}
}

// Load 从 gdata 加载数据
func (sm *SaveManager) Load() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.gdataManager == nil {
		return nil
	}
	if !sm.gdataManager.ObjectPropExists(saveObject, saveProperty) {
		return nil
	}

	raw, err := sm.gdataManager.LoadObjectProp(saveObject, saveProperty)
	if err != nil {
		return fmt.Errorf("failed to load save data: %w", err)
	}

	var loaded saveData
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal save data: %w", err)
	}

	// 缺失身份的旧存档补全
	if loaded.Profile.UserID == "" {
		fresh := newProfile()
		loaded.Profile.UserID = fresh.UserID
		if loaded.Profile.Username == "" {
			loaded.Profile.Username = fresh.Username
		}
	}

	sm.data = &loaded
	log.Printf("[SaveManager] Loaded profile %s (%d pending submissions)", sm.data.Profile.Username, len(sm.data.Pending))
	return nil
}

// Save 保存数据到 gdata，降级模式下直接返回 nil
func (sm *SaveManager) Save() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.saveLocked()
}

func (sm *SaveManager) saveLocked() error {
	if sm.gdataManager == nil {
		return nil
	}

	raw, err := yaml.Marshal(sm.data)
	if err != nil {
		return fmt.Errorf("failed to marshal save data: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(saveObject, saveProperty, raw); err != nil {
		return fmt.Errorf("failed to save save data: %w", err)
	}
	return nil
}

// Profile 当前玩家档案（副本）
func (sm *SaveManager) Profile() PlayerProfile {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.data.Profile
}

// SetUsername 修改玩家名称
func (sm *SaveManager) SetUsername(name string) error {
	if name == "" {
		return fmt.Errorf("username cannot be empty")
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.data.Profile.Username = name
	return sm.saveLocked()
}

// RecordResult 记录一局结果，返回是否刷新最高分
// completed 为 true 时 survivalTime 参与最佳通关时间比较
func (sm *SaveManager) RecordResult(score int, survivalTime float64, completed bool) (bool, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	p := &sm.data.Profile
	p.Games++

	newHigh := score > p.HighScore
	if newHigh {
		p.HighScore = score
	}
	if completed && (p.BestTime == 0 || survivalTime < p.BestTime) {
		p.BestTime = survivalTime
	}

	return newHigh, sm.saveLocked()
}

// EnqueuePending 加入待提交队列（同一 ID 只保留一份）
func (sm *SaveManager) EnqueuePending(sub PendingSubmission) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for _, p := range sm.data.Pending {
		if p.ID == sub.ID {
			return nil
		}
	}
	sm.data.Pending = append(sm.data.Pending, sub)
	log.Printf("[SaveManager] Queued score %d for later submission", sub.Score)
	return sm.saveLocked()
}

// PendingSubmissions 待提交队列（副本）
func (sm *SaveManager) PendingSubmissions() []PendingSubmission {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return append([]PendingSubmission(nil), sm.data.Pending...)
}

// RemovePending 从待提交队列移除
func (sm *SaveManager) RemovePending(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	kept := sm.data.Pending[:0]
	for _, p := range sm.data.Pending {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	sm.data.Pending = kept
	return sm.saveLocked()
}
