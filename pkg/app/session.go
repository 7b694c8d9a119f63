package app

import (
	"fmt"
	"log"

	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/embedded"
	"github.com/gonewx/fouhou/pkg/entities"
	"github.com/gonewx/fouhou/pkg/game"
	"github.com/gonewx/fouhou/pkg/systems"
	"github.com/gonewx/fouhou/pkg/utils"
)

// DefaultStageGlob 配置未列出关卡时使用的关卡文件
const DefaultStageGlob = "data/stages/*.yaml"

// Session 一局游戏的全部系统，不依赖窗口或输入设备
type Session struct {
	Config *config.GameConfig

	EntityManager *ecs.EntityManager
	Clock         *game.Clock
	Pool          *entities.ProjectilePool

	Dialogue    *systems.DialogueSystem
	Health      *systems.HealthSystem
	Player      *systems.PlayerSystem
	Projectiles *systems.ProjectileSystem
	Sequencer   *systems.StageSequencerSystem

	Ledger *game.ScoreLedger
}

// NewSession 按配置加载关卡并组装系统
func NewSession(cfg *config.GameConfig, sink game.ScoreSink) (*Session, error) {
	paths := cfg.Stages
	if len(paths) == 0 {
		var err error
		paths, err = embedded.Glob(DefaultStageGlob)
		if err != nil {
			return nil, fmt.Errorf("failed to list stages: %w", err)
		}
	}

	plans, err := systems.LoadStagePlans(paths)
	if err != nil {
		return nil, err
	}
	return NewSessionWithPlans(cfg, plans, sink), nil
}

// NewSessionWithPlans 使用已构建的关卡计划组装系统
func NewSessionWithPlans(cfg *config.GameConfig, plans []*systems.StagePlan, sink game.ScoreSink) *Session {
	em := ecs.NewEntityManager()
	clock := game.NewClock()
	pool := entities.NewProjectilePool(em, cfg.PoolSize, cfg.Debug)
	bounds := systems.StaticBounds(cfg.Bounds)

	policy := game.SubmitPolicy{}
	if cfg.Submit.AutoSubmit != nil {
		policy.AutoSubmit = *cfg.Submit.AutoSubmit
	}
	if cfg.Submit.OnlyOnCompletion != nil {
		policy.OnlyOnCompletion = *cfg.Submit.OnlyOnCompletion
	}
	ledger := game.NewScoreLedger(cfg.Score, policy, sink)

	dialogue := systems.NewDialogueSystem(em, clock, cfg.TypeSpeed)
	health := systems.NewHealthSystem(em, cfg.Player.ShieldDuration)

	opts := systems.DefaultSequencerOptions()
	if cfg.Origin.X != nil {
		opts.Origin.X = *cfg.Origin.X
	}
	if cfg.Origin.Y != nil {
		opts.Origin.Y = *cfg.Origin.Y
	}
	opts.SafeMargin = cfg.SafeMargin
	opts.DialogueSafeDelay = cfg.DialogueSafeDelay
	opts.Narrator = dialogue
	opts.Score = ledger

	s := &Session{
		Config:        cfg,
		EntityManager: em,
		Clock:         clock,
		Pool:          pool,
		Dialogue:      dialogue,
		Health:        health,
		Player:        systems.NewPlayerSystem(em, pool, health, bounds, cfg.Player),
		Projectiles:   systems.NewProjectileSystem(em, pool, bounds, ledger),
		Sequencer:     systems.NewStageSequencerSystem(em, pool, plans, opts),
		Ledger:        ledger,
	}

	log.Printf("[Session] Created with %d stage(s), pool capacity %d", len(plans), cfg.PoolSize)
	return s
}

// Tick 推进一帧
//
// realDt 为真实时间；游戏时间由时钟按时间缩放换算。对话使用真实时间，
// 其余系统使用游戏时间。玩家死亡后关卡编排停止推进。
func (s *Session) Tick(realDt float64, move utils.Vec2) (hit, died bool) {
	gameDt := s.Clock.Advance(realDt)

	s.Dialogue.Update(realDt)
	s.Health.Update(gameDt)

	hit, died = s.Player.Update(gameDt, move)
	if died {
		s.Ledger.EndGame()
	}

	s.Projectiles.Update(gameDt)
	if !s.Player.IsDead() {
		s.Sequencer.Update(gameDt)
	}
	s.Ledger.Update(gameDt)

	return hit, died
}

// Finished 本局是否结束（通关或死亡）
func (s *Session) Finished() bool {
	return s.Sequencer.IsGameComplete() || s.Player.IsDead()
}
