package systems

import (
	"fmt"

	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/ecs"
	"github.com/gonewx/fouhou/pkg/entities"
	"github.com/gonewx/fouhou/pkg/patterns"
	"github.com/gonewx/fouhou/pkg/utils"
)

// countingPattern 记录发射次数的测试图案
type countingPattern struct {
	rate  float64
	fires int
	times []float64

	// speed > 0 时每次发射生成一颗向右的子弹
	speed float64
}

func (p *countingPattern) Fire(origin utils.Vec2, spawner patterns.Spawner, currentTime float64) {
	p.fires++
	p.times = append(p.times, currentTime)
	if p.speed > 0 {
		spawner.Spawn(origin, utils.Vec2{X: 1}, p.speed, 1, "test")
	}
}

func (p *countingPattern) FireRate() float64 {
	return p.rate
}

// fakeNarrator 手动控制结束时机的叙事协作者
type fakeNarrator struct {
	active bool
	starts []string
}

func (n *fakeNarrator) StartSequence(name string, lines []components.DialogueLine) {
	n.starts = append(n.starts, name)
	n.active = true
}

func (n *fakeNarrator) IsActive() bool {
	return n.active
}

// recordingScore 按顺序记录所有计分通知
type recordingScore struct {
	events  []string
	expired int
}

func (r *recordingScore) NotifyProjectileExpired(count int) { r.expired += count }
func (r *recordingScore) NotifyStageStarted(stage int) {
	r.events = append(r.events, fmt.Sprintf("stageStarted(%d)", stage))
}
func (r *recordingScore) NotifyGroupStarted(stage, group int) {
	r.events = append(r.events, fmt.Sprintf("groupStarted(%d,%d)", stage, group))
}
func (r *recordingScore) NotifyPatternCompleted(stage, group, pattern int) {
	r.events = append(r.events, fmt.Sprintf("patternCompleted(%d,%d,%d)", stage, group, pattern))
}
func (r *recordingScore) NotifyGroupCompleted(stage, group int, isLastStage, isLastGroup bool) {
	r.events = append(r.events, fmt.Sprintf("groupCompleted(%d,%d,%v,%v)", stage, group, isLastStage, isLastGroup))
}
func (r *recordingScore) NotifyAllGroupsCompleted(stage int) {
	r.events = append(r.events, fmt.Sprintf("allGroupsCompleted(%d)", stage))
}
func (r *recordingScore) NotifyStageCompleted(stage int) {
	r.events = append(r.events, fmt.Sprintf("stageCompleted(%d)", stage))
}
func (r *recordingScore) NotifyGameCompleted() {
	r.events = append(r.events, "gameCompleted")
}

func (r *recordingScore) has(event string) bool {
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

// fakeClock 游戏时间 = 真实时间 × 缩放
type fakeClock struct {
	scale float64
}

func (c *fakeClock) TimeScale() float64            { return c.scale }
func (c *fakeClock) SetTimeScale(s float64)        { c.scale = s }
func (c *fakeClock) gameDt(realDt float64) float64 { return realDt * c.scale }

// sequencerHarness 按固定顺序驱动子弹系统与编排器
type sequencerHarness struct {
	em          *ecs.EntityManager
	pool        *entities.ProjectilePool
	projectiles *ProjectileSystem
	seq         *StageSequencerSystem
	score       *recordingScore
	now         float64
}

func newHarness(stages []*StagePlan, opts SequencerOptions) *sequencerHarness {
	em := ecs.NewEntityManager()
	pool := entities.NewProjectilePool(em, 256, true)
	score := &recordingScore{}
	opts.Score = score

	return &sequencerHarness{
		em:          em,
		pool:        pool,
		projectiles: NewProjectileSystem(em, pool, nil, score),
		seq:         NewStageSequencerSystem(em, pool, stages, opts),
		score:       score,
	}
}

// tick 子弹先更新，编排器后更新
func (h *sequencerHarness) tick(dt float64) {
	h.projectiles.Update(dt)
	h.seq.Update(dt)
	h.now += dt
}

// runUntil 推进直到条件满足，返回是否在 maxTicks 内满足
func (h *sequencerHarness) runUntil(dt float64, maxTicks int, cond func() bool) bool {
	for i := 0; i < maxTicks; i++ {
		h.tick(dt)
		if cond() {
			return true
		}
	}
	return false
}

func singleEntryGroup(p patterns.FiringPattern, duration float64) GroupPlan {
	return GroupPlan{Entries: []EntryPlan{{Name: "p", Pattern: p, Duration: duration}}}
}
