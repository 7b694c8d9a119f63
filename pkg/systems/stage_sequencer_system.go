package systems

import (
	"fmt"
	"log"

	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/utils"
)

// maxTransitionsPerTick 单帧内最多连续执行的瞬时转换次数
// 防止零时长组或空组在一帧内无限循环
const maxTransitionsPerTick = 32

// SequencerOptions 编排器参数
type SequencerOptions struct {
	// Origin 所有图案的发射原点
	Origin utils.Vec2

	// SafeMargin 最后一次发射后，关卡结束前的等待时间（秒）
	SafeMargin float64

	// DialogueSafeDelay 子弹清空后，显示对话前的等待时间（秒）
	DialogueSafeDelay float64

	// Narrator 叙事协作者，nil 表示跳过所有对话
	Narrator Narrator

	// Score 计分协作者，nil 表示不计分
	Score ScoreNotifier
}

// DefaultSequencerOptions 默认编排器参数
func DefaultSequencerOptions() SequencerOptions {
	return SequencerOptions{
		Origin:            utils.Vec2{X: 0, Y: config.DefaultOriginY},
		SafeMargin:        config.DefaultSafeMargin,
		DialogueSafeDelay: config.DefaultDialogueSafeDelay,
	}
}

// StageSequencerSystem 关卡编排器
//
// 状态机：
//
//	AwaitingGroup → GroupDelay → GroupRunning → (AwaitingBulletsClear → DialogueActive →) AwaitingGroup
//	AwaitingGroup → StageClearPending → StageComplete → 下一关卡 / 游戏结束
//
// 同一关卡中的图案组严格串行，组内图案并行。对话期间不推进任何计时器。
// 全部状态存储在 StageSequencerComponent 中，系统本身只持有协作者引用。
type StageSequencerSystem struct {
	entityManager *ecs.EntityManager
	entityID      ecs.EntityID

	stages []*StagePlan
	pool   ProjectileTracker

	narrator Narrator
	score    ScoreNotifier

	origin            utils.Vec2
	safeMargin        float64
	dialogueSafeDelay float64
}

// NewStageSequencerSystem 创建关卡编排器并加载第一关
//
// 参数：
//   - em: 实体管理器（编排器状态挂在一个专用实体上）
//   - pool: 子弹池
//   - stages: 按顺序执行的关卡计划
//   - opts: 编排参数与协作者
//
// 返回：
//   - *StageSequencerSystem: 系统实例
func NewStageSequencerSystem(em *ecs.EntityManager, pool ProjectileTracker, stages []*StagePlan, opts SequencerOptions) *StageSequencerSystem {
	s := &StageSequencerSystem{
		entityManager:     em,
		stages:            stages,
		pool:              pool,
		narrator:          opts.Narrator,
		score:             opts.Score,
		origin:            opts.Origin,
		safeMargin:        opts.SafeMargin,
		dialogueSafeDelay: opts.DialogueSafeDelay,
	}
	if s.score == nil {
		s.score = nopScoreNotifier{}
	}

	s.entityID = em.CreateEntity()
	ecs.AddComponent(em, s.entityID, &components.StageSequencerComponent{ActiveGroupIndex: -1})

	if len(stages) == 0 {
		log.Printf("[StageSequencerSystem] Warning: no stages configured, game is complete")
		seq := s.component()
		seq.State = components.SequencerStageComplete
		seq.GameComplete = true
		return s
	}

	if err := s.LoadStage(0); err != nil {
		log.Printf("[StageSequencerSystem] Warning: %v", err)
	}

	log.Printf("[StageSequencerSystem] Initialized with %d stages", len(stages))
	return s
}

// LoadStage 加载指定关卡并重置所有计数器
// 正在运行的图案实例和待显示的对话都会被丢弃
func (s *StageSequencerSystem) LoadStage(index int) error {
	if index < 0 || index >= len(s.stages) {
		return fmt.Errorf("stage index %d out of range [0, %d)", index, len(s.stages))
	}

	seq := s.component()
	if seq == nil {
		return fmt.Errorf("sequencer entity %d has no StageSequencerComponent", s.entityID)
	}

	// 中断正在显示的对话
	if s.narrator != nil && s.narrator.IsActive() {
		if skipper, ok := s.narrator.(interface{ Skip() }); ok {
			skipper.Skip()
		}
	}

	*seq = components.StageSequencerComponent{
		State:            components.SequencerAwaitingGroup,
		CurrentStage:     index,
		ActiveGroupIndex: -1,
	}

	stage := s.stages[index]
	log.Printf("[StageSequencerSystem] Stage %d (%s) loaded: %d groups", index+1, stage.Name, len(stage.Groups))
	s.score.NotifyStageStarted(index)
	return nil
}

// Update 推进编排器一帧
// dt 必须是游戏时间（对话期间为 0），且在所有子弹更新之后调用
func (s *StageSequencerSystem) Update(dt float64) {
	seq := s.component()
	if seq == nil || seq.GameComplete {
		return
	}
	if dt < 0 {
		dt = 0
	}

	// 上一帧完成的关卡在本帧切换到下一关
	if seq.State == components.SequencerStageComplete {
		if err := s.LoadStage(seq.CurrentStage + 1); err != nil {
			log.Printf("[StageSequencerSystem] Warning: %v", err)
			return
		}
	}

	seq.StageTime += dt
	if seq.HasFired {
		seq.SinceLastFire += dt
	}

	// 计时状态消耗本帧的 dt，之后的瞬时转换使用 0
	remaining := dt
	for i := 0; i < maxTransitionsPerTick; i++ {
		prev := seq.State

		switch seq.State {
		case components.SequencerAwaitingGroup:
			s.updateAwaitingGroup(seq)

		case components.SequencerGroupDelay:
			s.updateGroupDelay(seq, remaining)
			remaining = 0

		case components.SequencerGroupRunning:
			s.updateGroupRunning(seq, remaining)
			remaining = 0

		case components.SequencerAwaitingBulletsClear:
			s.updateAwaitingBulletsClear(seq, remaining)
			remaining = 0

		case components.SequencerDialogueActive:
			s.updateDialogueActive(seq)

		case components.SequencerStageClearPending:
			s.updateStageClearPending(seq)

		case components.SequencerStageComplete:
			// 终止状态，下一帧处理
		}

		if seq.State == prev {
			return
		}
	}
}

// updateAwaitingGroup 启动下一个图案组，或在所有组完成后进入关卡收尾
func (s *StageSequencerSystem) updateAwaitingGroup(seq *components.StageSequencerComponent) {
	stage := s.stages[seq.CurrentStage]

	if seq.NextGroupIndex >= len(stage.Groups) {
		log.Printf("[StageSequencerSystem] Stage %d: all %d groups finished, waiting for safety margin", seq.CurrentStage+1, len(stage.Groups))
		s.score.NotifyAllGroupsCompleted(seq.CurrentStage)
		seq.State = components.SequencerStageClearPending
		return
	}

	seq.ActiveGroupIndex = seq.NextGroupIndex
	seq.NextGroupIndex++

	group := stage.Groups[seq.ActiveGroupIndex]
	if config.ValidSeconds(group.Delay) && group.Delay > 0 {
		seq.GroupDelayTimer = group.Delay
		seq.State = components.SequencerGroupDelay
		return
	}
	s.startGroup(seq)
}

// updateGroupDelay 倒计时组延迟
func (s *StageSequencerSystem) updateGroupDelay(seq *components.StageSequencerComponent, dt float64) {
	seq.GroupDelayTimer -= dt
	if seq.GroupDelayTimer <= 0 {
		seq.GroupDelayTimer = 0
		s.startGroup(seq)
	}
}

// startGroup 为组内每个条目创建运行实例
func (s *StageSequencerSystem) startGroup(seq *components.StageSequencerComponent) {
	group := s.stages[seq.CurrentStage].Groups[seq.ActiveGroupIndex]

	seq.Running = seq.Running[:0]
	for i, entry := range group.Entries {
		if reason := malformedEntry(entry); reason != "" {
			log.Printf("[StageSequencerSystem] Stage %d, group %d, entry %d skipped: %s",
				seq.CurrentStage+1, seq.ActiveGroupIndex+1, i, reason)
			continue
		}
		seq.Running = append(seq.Running, &components.RunningPattern{
			Name:         entry.Name,
			Pattern:      entry.Pattern,
			Duration:     entry.Duration,
			StartDelay:   entry.StartDelay,
			DelayTimer:   entry.StartDelay,
			StageIndex:   seq.CurrentStage,
			GroupIndex:   seq.ActiveGroupIndex,
			PatternIndex: i,
		})
	}

	seq.State = components.SequencerGroupRunning
	log.Printf("[StageSequencerSystem] Stage %d, group %d started with %d patterns",
		seq.CurrentStage+1, seq.ActiveGroupIndex+1, len(seq.Running))
	s.score.NotifyGroupStarted(seq.CurrentStage, seq.ActiveGroupIndex)
}

// malformedEntry 返回条目不可运行的原因，合法时返回空字符串
func malformedEntry(entry EntryPlan) string {
	switch {
	case entry.Pattern == nil:
		return "nil pattern"
	case !config.ValidSeconds(entry.Duration):
		return fmt.Sprintf("invalid duration %.3f", entry.Duration)
	case !config.ValidSeconds(entry.StartDelay):
		return fmt.Sprintf("invalid startDelay %.3f", entry.StartDelay)
	}
	return ""
}

// updateGroupRunning 推进组内所有运行实例
//
// 每个实例：先消耗启动延迟，再累加发射计时器；
// 计时器 >= 发射间隔时发射并归零（不保留余数），发射间隔 <= 0 时每帧最多发射一次。
// 实例在 Timer >= Duration + StartDelay 时移除。
func (s *StageSequencerSystem) updateGroupRunning(seq *components.StageSequencerComponent, dt float64) {
	kept := seq.Running[:0]
	for _, rp := range seq.Running {
		rp.Timer += dt

		if rp.Timer >= rp.Duration+rp.StartDelay {
			s.score.NotifyPatternCompleted(rp.StageIndex, rp.GroupIndex, rp.PatternIndex)
			continue
		}

		if rp.DelayTimer > 0 {
			rp.DelayTimer -= dt
		} else {
			rp.FireTimer += dt
			rate := rp.Pattern.FireRate()
			if (rate <= 0 && dt > 0) || (rate > 0 && rp.FireTimer >= rate) {
				rp.Pattern.Fire(s.origin, s.pool, rp.Timer-rp.StartDelay)
				rp.FireTimer = 0
				seq.HasFired = true
				seq.SinceLastFire = 0
			}
		}

		kept = append(kept, rp)
	}

	// 清空被移除实例的引用
	for i := len(kept); i < len(seq.Running); i++ {
		seq.Running[i] = nil
	}
	seq.Running = kept

	if len(seq.Running) > 0 {
		return
	}

	stage := s.stages[seq.CurrentStage]
	group := stage.Groups[seq.ActiveGroupIndex]
	isLastStage := seq.CurrentStage == len(s.stages)-1
	isLastGroup := seq.ActiveGroupIndex == len(stage.Groups)-1
	s.score.NotifyGroupCompleted(seq.CurrentStage, seq.ActiveGroupIndex, isLastStage, isLastGroup)

	if group.HasDialogue() {
		if s.narrator == nil {
			log.Printf("[StageSequencerSystem] No narrator, skipping dialogue %q", group.Dialogue)
		} else {
			seq.BulletsCleared = false
			seq.ClearedFor = 0
			seq.State = components.SequencerAwaitingBulletsClear
			return
		}
	}
	seq.State = components.SequencerAwaitingGroup
}

// updateAwaitingBulletsClear 等待子弹清空并持续安全延迟后开始对话
func (s *StageSequencerSystem) updateAwaitingBulletsClear(seq *components.StageSequencerComponent, dt float64) {
	if s.pool.ActiveCount() > 0 {
		seq.BulletsCleared = false
		seq.ClearedFor = 0
		return
	}

	if !seq.BulletsCleared {
		seq.BulletsCleared = true
		seq.ClearedFor = 0
	} else {
		seq.ClearedFor += dt
	}

	if seq.ClearedFor < s.dialogueSafeDelay {
		return
	}

	group := s.stages[seq.CurrentStage].Groups[seq.ActiveGroupIndex]
	log.Printf("[StageSequencerSystem] Bullets cleared, starting dialogue %q", group.Dialogue)
	seq.State = components.SequencerDialogueActive
	s.narrator.StartSequence(group.Dialogue, group.DialogueLines)
}

// updateDialogueActive 轮询叙事协作者直到对话结束
func (s *StageSequencerSystem) updateDialogueActive(seq *components.StageSequencerComponent) {
	if s.narrator != nil && s.narrator.IsActive() {
		return
	}
	log.Printf("[StageSequencerSystem] Dialogue finished, resuming stage %d", seq.CurrentStage+1)
	seq.State = components.SequencerAwaitingGroup
}

// updateStageClearPending 最后一次发射后等待安全时间
// 本关卡从未发射过子弹时立即完成
func (s *StageSequencerSystem) updateStageClearPending(seq *components.StageSequencerComponent) {
	if seq.HasFired && seq.SinceLastFire < s.safeMargin {
		return
	}
	s.completeStage(seq)
}

// completeStage 进入 StageComplete：转换残留子弹、通知计分
func (s *StageSequencerSystem) completeStage(seq *components.StageSequencerComponent) {
	seq.State = components.SequencerStageComplete

	if converted := s.pool.ForceExpireAll(); converted > 0 {
		s.score.NotifyProjectileExpired(converted)
	}
	s.score.NotifyStageCompleted(seq.CurrentStage)

	log.Printf("[StageSequencerSystem] Stage %d complete (%.2fs)", seq.CurrentStage+1, seq.StageTime)

	if seq.CurrentStage >= len(s.stages)-1 {
		seq.GameComplete = true
		log.Printf("[StageSequencerSystem] All %d stages complete", len(s.stages))
		s.score.NotifyGameCompleted()
	}
}

// component 获取编排器状态组件
func (s *StageSequencerSystem) component() *components.StageSequencerComponent {
	seq, ok := ecs.GetComponent[*components.StageSequencerComponent](s.entityManager, s.entityID)
	if !ok {
		return nil
	}
	return seq
}

// EntityID 编排器状态所在的实体
func (s *StageSequencerSystem) EntityID() ecs.EntityID {
	return s.entityID
}

// State 当前状态
func (s *StageSequencerSystem) State() components.SequencerState {
	if seq := s.component(); seq != nil {
		return seq.State
	}
	return components.SequencerStageComplete
}

// IsGameComplete 是否所有关卡都已完成
func (s *StageSequencerSystem) IsGameComplete() bool {
	seq := s.component()
	return seq == nil || seq.GameComplete
}

// CurrentStageIndex 当前关卡索引（0-based）
func (s *StageSequencerSystem) CurrentStageIndex() int {
	if seq := s.component(); seq != nil {
		return seq.CurrentStage
	}
	return 0
}

// CurrentStageName 当前关卡名称
func (s *StageSequencerSystem) CurrentStageName() string {
	idx := s.CurrentStageIndex()
	if idx < 0 || idx >= len(s.stages) {
		return ""
	}
	return s.stages[idx].Name
}

// TotalStages 关卡总数
func (s *StageSequencerSystem) TotalStages() int {
	return len(s.stages)
}

// CurrentGroupIndex 最近启动的图案组索引，尚未启动任何组时为 -1
func (s *StageSequencerSystem) CurrentGroupIndex() int {
	if seq := s.component(); seq != nil {
		return seq.ActiveGroupIndex
	}
	return -1
}

// TotalGroupsInCurrentStage 当前关卡的图案组数量
func (s *StageSequencerSystem) TotalGroupsInCurrentStage() int {
	idx := s.CurrentStageIndex()
	if idx < 0 || idx >= len(s.stages) {
		return 0
	}
	return len(s.stages[idx].Groups)
}

// RunningCount 当前运行中的图案实例数量
func (s *StageSequencerSystem) RunningCount() int {
	if seq := s.component(); seq != nil {
		return len(seq.Running)
	}
	return 0
}

// StageTime 当前关卡已经过的游戏时间
func (s *StageSequencerSystem) StageTime() float64 {
	if seq := s.component(); seq != nil {
		return seq.StageTime
	}
	return 0
}

// nopScoreNotifier 未配置计分时使用
type nopScoreNotifier struct{}

func (nopScoreNotifier) NotifyProjectileExpired(int)               {}
func (nopScoreNotifier) NotifyStageStarted(int)                    {}
func (nopScoreNotifier) NotifyGroupStarted(int, int)               {}
func (nopScoreNotifier) NotifyPatternCompleted(int, int, int)      {}
func (nopScoreNotifier) NotifyGroupCompleted(int, int, bool, bool) {}
func (nopScoreNotifier) NotifyAllGroupsCompleted(int)              {}
func (nopScoreNotifier) NotifyStageCompleted(int)                  {}
func (nopScoreNotifier) NotifyGameCompleted()                      {}
