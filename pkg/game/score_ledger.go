package game

import (
	"log"

	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/utils"
)

// ScoreSink 接收最终分数（通常是异步提交）
type ScoreSink interface {
	Submit(score int)
}

// ScoreSinkFunc 函数适配器
type ScoreSinkFunc func(score int)

// Submit 实现 ScoreSink
func (f ScoreSinkFunc) Submit(score int) { f(score) }

// SubmitPolicy 自动提交策略
type SubmitPolicy struct {
	AutoSubmit       bool // 游戏结束时自动提交
	OnlyOnCompletion bool // 仅在通关时提交（死亡不提交）
}

// ScoreLedger 计分账本
//
// 计分规则：
//   - 每颗过期或被转换的子弹 +Bullet
//   - 每个图案完成 +Pattern
//   - 图案组完成 (stage+1)*GroupStageUnit + (group+1)*GroupUnit
//   - 关卡完成 stageNumber*Stage
//   - 通关 +GameCompletion
//   - 每存活一整分钟 +Minute
//
// 总存活时间按游戏时间累计，跨关卡不清零；关卡时间在每关开始时清零。
type ScoreLedger struct {
	rules  config.ScoreConfig
	policy SubmitPolicy
	sink   ScoreSink

	score          int
	survivalTime   float64
	stageTime      float64
	minutesAwarded int
	currentStage   int // 1-based

	bulletsExpired int
	lastGroupDone  bool
	gameCompleted  bool
	gameOver       bool
	submitted      bool
}

// NewScoreLedger 创建计分账本
//
// 参数：
//   - rules: 计分规则
//   - policy: 自动提交策略
//   - sink: 最终分数接收者，可为 nil
func NewScoreLedger(rules config.ScoreConfig, policy SubmitPolicy, sink ScoreSink) *ScoreLedger {
	return &ScoreLedger{
		rules:        rules,
		policy:       policy,
		sink:         sink,
		currentStage: 1,
	}
}

// Update 按游戏时间推进计时，并发放存活分钟奖励
func (l *ScoreLedger) Update(gameDt float64) {
	if l.Finished() || gameDt <= 0 {
		return
	}

	l.survivalTime += gameDt
	l.stageTime += gameDt

	minutes := int(l.survivalTime / 60)
	if minutes > l.minutesAwarded {
		bonus := (minutes - l.minutesAwarded) * l.rules.Minute
		l.score += bonus
		l.minutesAwarded = minutes
		log.Printf("[ScoreLedger] Survived %d minute(s), +%d", minutes, bonus)
	}
}

// NotifyProjectileExpired 子弹过期或被转换
func (l *ScoreLedger) NotifyProjectileExpired(count int) {
	if count <= 0 || l.Finished() {
		return
	}
	l.bulletsExpired += count
	l.score += count * l.rules.Bullet
}

// NotifyStageStarted 关卡开始：重置关卡计时
func (l *ScoreLedger) NotifyStageStarted(stageIndex int) {
	l.currentStage = stageIndex + 1
	l.stageTime = 0
	log.Printf("[ScoreLedger] Stage %d started", l.currentStage)
}

// NotifyGroupStarted 图案组开始
func (l *ScoreLedger) NotifyGroupStarted(stageIndex, groupIndex int) {
	log.Printf("[ScoreLedger] Group %d of stage %d started", groupIndex+1, stageIndex+1)
}

// NotifyPatternCompleted 图案完成奖励
func (l *ScoreLedger) NotifyPatternCompleted(stageIndex, groupIndex, patternIndex int) {
	if l.Finished() {
		return
	}
	l.score += l.rules.Pattern
}

// NotifyGroupCompleted 图案组完成奖励
func (l *ScoreLedger) NotifyGroupCompleted(stageIndex, groupIndex int, isLastStage, isLastGroup bool) {
	if l.Finished() {
		return
	}
	bonus := (stageIndex+1)*l.rules.GroupStageUnit + (groupIndex+1)*l.rules.GroupUnit
	l.score += bonus
	log.Printf("[ScoreLedger] Group %d of stage %d completed, +%d", groupIndex+1, stageIndex+1, bonus)

	if isLastStage && isLastGroup {
		l.lastGroupDone = true
	}
}

// NotifyAllGroupsCompleted 关卡内所有组已完成
func (l *ScoreLedger) NotifyAllGroupsCompleted(stageIndex int) {
	log.Printf("[ScoreLedger] All groups in stage %d completed", stageIndex+1)
}

// NotifyStageCompleted 关卡完成奖励，关卡计时清零
func (l *ScoreLedger) NotifyStageCompleted(stageIndex int) {
	if l.Finished() {
		return
	}
	bonus := (stageIndex + 1) * l.rules.Stage
	l.score += bonus
	log.Printf("[ScoreLedger] Stage %d completed in %s, +%d", stageIndex+1, utils.FormatTime(l.stageTime), bonus)
	l.stageTime = 0
}

// NotifyGameCompleted 通关：发放通关奖励并按策略提交
func (l *ScoreLedger) NotifyGameCompleted() {
	if l.Finished() {
		return
	}
	l.gameCompleted = true
	l.score += l.rules.GameCompletion

	log.Printf("[ScoreLedger] Game completed! Final score %d, time %s, %d minute(s) survived",
		l.score, utils.FormatTime(l.survivalTime), l.minutesAwarded)

	if l.policy.AutoSubmit {
		l.submit()
	}
}

// EndGame 游戏结束（玩家死亡）
// OnlyOnCompletion 为 true 时未通关的分数不提交
func (l *ScoreLedger) EndGame() {
	if l.Finished() {
		return
	}
	l.gameOver = true

	log.Printf("[ScoreLedger] Game over! Final score %d, time %s", l.score, utils.FormatTime(l.survivalTime))

	if !l.policy.AutoSubmit {
		return
	}
	if l.policy.OnlyOnCompletion && !l.gameCompleted {
		log.Printf("[ScoreLedger] Game not completed, score not submitted")
		return
	}
	l.submit()
}

// SubmitManually 手动提交当前分数
func (l *ScoreLedger) SubmitManually() bool {
	return l.submit()
}

func (l *ScoreLedger) submit() bool {
	if l.sink == nil {
		log.Printf("[ScoreLedger] Warning: no score sink configured, score %d not submitted", l.score)
		return false
	}
	if l.submitted {
		return false
	}
	l.submitted = true
	l.sink.Submit(l.score)
	return true
}

// AddScore 直接加分
func (l *ScoreLedger) AddScore(points int) {
	l.score += points
}

// Score 当前总分
func (l *ScoreLedger) Score() int { return l.score }

// SurvivalTime 总存活时间（游戏时间）
func (l *ScoreLedger) SurvivalTime() float64 { return l.survivalTime }

// StageTime 当前关卡时间
func (l *ScoreLedger) StageTime() float64 { return l.stageTime }

// CurrentStage 当前关卡编号（1-based）
func (l *ScoreLedger) CurrentStage() int { return l.currentStage }

// MinutesSurvived 已奖励的存活分钟数
func (l *ScoreLedger) MinutesSurvived() int { return l.minutesAwarded }

// BulletsExpired 累计过期子弹数
func (l *ScoreLedger) BulletsExpired() int { return l.bulletsExpired }

// IsGameCompleted 是否通关
func (l *ScoreLedger) IsGameCompleted() bool { return l.gameCompleted }

// IsLastGroupCompleted 最后一关的最后一组是否完成
func (l *ScoreLedger) IsLastGroupCompleted() bool { return l.lastGroupDone }

// IsGameOver 是否因死亡结束
func (l *ScoreLedger) IsGameOver() bool { return l.gameOver }

// Finished 本局是否已结束（通关或死亡）
func (l *ScoreLedger) Finished() bool { return l.gameCompleted || l.gameOver }

// Submitted 分数是否已交给提交者
func (l *ScoreLedger) Submitted() bool { return l.submitted }
