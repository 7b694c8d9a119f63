package systems

import (
	"math"
	"testing"

	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/patterns"
	"github.com/gonewx/fouhou/pkg/utils"
)

const tickDt = 0.1

func testOptions(narrator Narrator) SequencerOptions {
	return SequencerOptions{
		Origin:            utils.Vec2{X: 0, Y: 0},
		SafeMargin:        0.5,
		DialogueSafeDelay: 0.3,
		Narrator:          narrator,
	}
}

// TestSequencerProgression 两个图案组，第二组附带对话
func TestSequencerProgression(t *testing.T) {
	// 子弹速度 40，0.3 秒内飞出 ±8 的边界
	first := &countingPattern{rate: 0.2, speed: 40}
	second := &countingPattern{rate: 0.2, speed: 40}

	groupTwo := singleEntryGroup(second, 1.0)
	groupTwo.Dialogue = "interlude"
	groupTwo.DialogueLines = []components.DialogueLine{{Speaker: "Flower", Text: "..."}}

	stage := &StagePlan{ID: "s1", Name: "Test", Groups: []GroupPlan{singleEntryGroup(first, 1.0), groupTwo}}
	narrator := &fakeNarrator{}
	h := newHarness([]*StagePlan{stage}, testOptions(narrator))

	if h.seq.State() != components.SequencerAwaitingGroup {
		t.Fatalf("initial state: got %v, want AwaitingGroup", h.seq.State())
	}

	h.tick(tickDt)
	if h.seq.State() != components.SequencerGroupRunning || h.seq.CurrentGroupIndex() != 0 {
		t.Fatalf("after first tick: state=%v group=%d", h.seq.State(), h.seq.CurrentGroupIndex())
	}

	// 第一组在 t≈1.0 结束，第二组随即开始
	if !h.runUntil(tickDt, 20, func() bool { return h.seq.CurrentGroupIndex() == 1 }) {
		t.Fatal("group 2 never started")
	}
	if h.now < 0.95 || h.now > 1.25 {
		t.Errorf("group 2 started at t=%.2f, want ≈1.0", h.now)
	}
	if first.fires == 0 {
		t.Error("group 1 pattern never fired")
	}
	if second.fires != 0 {
		t.Error("groups must not overlap: group 2 fired while group 1 was running")
	}

	// 第二组结束后等待子弹清空
	if !h.runUntil(tickDt, 20, func() bool { return h.seq.State() == components.SequencerAwaitingBulletsClear }) {
		t.Fatalf("never reached AwaitingBulletsClear, state=%v", h.seq.State())
	}
	if len(narrator.starts) != 0 {
		t.Error("dialogue started before bullets cleared")
	}

	if !h.runUntil(tickDt, 30, func() bool { return h.seq.State() == components.SequencerDialogueActive }) {
		t.Fatalf("never reached DialogueActive, state=%v", h.seq.State())
	}
	if h.pool.ActiveCount() != 0 {
		t.Errorf("dialogue started with %d active bullets", h.pool.ActiveCount())
	}
	if len(narrator.starts) != 1 || narrator.starts[0] != "interlude" {
		t.Fatalf("StartSequence calls: %v", narrator.starts)
	}

	// 对话期间编排器保持不动，StartSequence 只调用一次
	for i := 0; i < 10; i++ {
		h.tick(tickDt)
	}
	if h.seq.State() != components.SequencerDialogueActive {
		t.Errorf("state changed during dialogue: %v", h.seq.State())
	}
	if len(narrator.starts) != 1 {
		t.Errorf("StartSequence called %d times, want 1", len(narrator.starts))
	}

	// 对话结束后关卡完成（安全时间早已过去）
	narrator.active = false
	if !h.runUntil(tickDt, 20, func() bool { return h.seq.State() == components.SequencerStageComplete }) {
		t.Fatalf("never reached StageComplete, state=%v", h.seq.State())
	}
	if !h.seq.IsGameComplete() {
		t.Error("single stage completed, game should be complete")
	}

	for _, want := range []string{
		"groupCompleted(0,0,true,false)",
		"groupCompleted(0,1,true,true)",
		"allGroupsCompleted(0)",
		"stageCompleted(0)",
		"gameCompleted",
	} {
		if !h.score.has(want) {
			t.Errorf("missing score event %s in %v", want, h.score.events)
		}
	}
	if h.score.expired != first.fires+second.fires {
		t.Errorf("expired %d bullets, fired %d", h.score.expired, first.fires+second.fires)
	}
}

// TestSequencerStageClearWaitsSafeMargin 最后一次发射后等待安全时间
func TestSequencerStageClearWaitsSafeMargin(t *testing.T) {
	p := &countingPattern{rate: 0.1}
	stage := &StagePlan{Groups: []GroupPlan{singleEntryGroup(p, 0.5)}}

	opts := testOptions(nil)
	opts.SafeMargin = 1.0
	h := newHarness([]*StagePlan{stage}, opts)

	if !h.runUntil(tickDt, 20, func() bool { return h.seq.State() == components.SequencerStageClearPending }) {
		t.Fatalf("never reached StageClearPending, state=%v", h.seq.State())
	}
	clearedAt := h.now

	if !h.runUntil(tickDt, 30, func() bool { return h.seq.State() == components.SequencerStageComplete }) {
		t.Fatalf("never reached StageComplete, state=%v", h.seq.State())
	}
	if waited := h.now - clearedAt; waited < 0.85 {
		t.Errorf("stage completed %.2fs after groups finished, want at least ≈ safety margin", waited)
	}
}

// TestSequencerZeroGroupStage 空关卡在第一帧完成
func TestSequencerZeroGroupStage(t *testing.T) {
	h := newHarness([]*StagePlan{{ID: "empty"}}, testOptions(nil))

	h.tick(tickDt)
	if h.seq.State() != components.SequencerStageComplete {
		t.Errorf("zero-group stage: got %v, want StageComplete", h.seq.State())
	}
	if !h.seq.IsGameComplete() {
		t.Error("game should be complete")
	}
}

// TestSequencerNoStages 没有关卡时直接视为完成
func TestSequencerNoStages(t *testing.T) {
	h := newHarness(nil, testOptions(nil))
	if !h.seq.IsGameComplete() {
		t.Error("sequencer without stages should report game complete")
	}
	h.tick(tickDt) // 不应 panic
}

// TestSequencerAdvancesStages 关卡完成状态保持一帧后加载下一关
func TestSequencerAdvancesStages(t *testing.T) {
	stages := []*StagePlan{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	h := newHarness(stages, testOptions(nil))

	h.tick(tickDt)
	if h.seq.State() != components.SequencerStageComplete || h.seq.CurrentStageIndex() != 0 {
		t.Fatalf("tick 1: state=%v stage=%d", h.seq.State(), h.seq.CurrentStageIndex())
	}
	if h.seq.IsGameComplete() {
		t.Fatal("game must not be complete after the first of two stages")
	}

	h.tick(tickDt)
	if h.seq.CurrentStageIndex() != 1 || h.seq.CurrentStageName() != "B" {
		t.Errorf("tick 2: expected stage B, got index %d (%s)", h.seq.CurrentStageIndex(), h.seq.CurrentStageName())
	}
	if !h.seq.IsGameComplete() {
		t.Error("second empty stage should complete the game")
	}
	if !h.score.has("stageStarted(1)") {
		t.Errorf("missing stage start event: %v", h.score.events)
	}
}

// TestSequencerMalformedEntries 非法条目被跳过，兄弟条目正常运行
func TestSequencerMalformedEntries(t *testing.T) {
	negativeRate := &countingPattern{rate: -1}
	good := &countingPattern{rate: 0.2}
	negativeDuration := &countingPattern{rate: 0.1}

	stage := &StagePlan{Groups: []GroupPlan{{
		Entries: []EntryPlan{
			{Name: "negativeRate", Pattern: negativeRate, Duration: 1},
			{Name: "nil", Pattern: nil, Duration: 1},
			{Name: "negativeDuration", Pattern: negativeDuration, Duration: -1},
			{Name: "negativeDelay", Pattern: negativeDuration, Duration: 1, StartDelay: -2},
			{Name: "nanDuration", Pattern: negativeDuration, Duration: math.NaN()},
			{Name: "infiniteDelay", Pattern: negativeDuration, Duration: 1, StartDelay: math.Inf(1)},
			{Name: "good", Pattern: good, Duration: 1},
		},
	}}}
	h := newHarness([]*StagePlan{stage}, testOptions(nil))

	h.tick(tickDt)
	if h.seq.RunningCount() != 2 {
		t.Fatalf("expected 2 running instances, got %d", h.seq.RunningCount())
	}

	for i := 0; i < 4; i++ {
		h.tick(tickDt)
	}

	// fireRate <= 0 钳制为每帧一次
	if negativeRate.fires != 5 {
		t.Errorf("fireRate -1 pattern fired %d times in 5 ticks, want 5", negativeRate.fires)
	}
	if good.fires != 2 {
		t.Errorf("sibling pattern fired %d times in 0.5s at rate 0.2, want 2", good.fires)
	}
	if negativeDuration.fires != 0 {
		t.Error("malformed entries must not fire")
	}

	// 暂停（dt=0）时钳制的图案不发射
	h.tick(0)
	if negativeRate.fires != 5 {
		t.Error("clamped pattern must not fire while time is frozen")
	}

	// 非有限时间的条目不会让组永远运行
	for i := 0; i < 10; i++ {
		h.tick(tickDt)
	}
	if h.seq.RunningCount() != 0 || h.seq.State() == components.SequencerGroupRunning {
		t.Errorf("group should finish once valid entries expire, got %v with %d running", h.seq.State(), h.seq.RunningCount())
	}
}

// TestSequencerNonFiniteGroupDelay 无穷大的组延迟不阻塞关卡
func TestSequencerNonFiniteGroupDelay(t *testing.T) {
	p := &countingPattern{rate: 0.1}
	stage := &StagePlan{Groups: []GroupPlan{{
		Delay:   math.Inf(1),
		Entries: []EntryPlan{{Name: "p", Pattern: p, Duration: 0.3}},
	}}}
	h := newHarness([]*StagePlan{stage}, testOptions(nil))

	h.tick(tickDt)
	if h.seq.State() != components.SequencerGroupRunning {
		t.Fatalf("expected group to start immediately, got %v", h.seq.State())
	}
}

// TestSequencerStartDelay 组内启动延迟
func TestSequencerStartDelay(t *testing.T) {
	immediate := &countingPattern{rate: 0.1}
	delayed := &countingPattern{rate: 0.1}

	stage := &StagePlan{Groups: []GroupPlan{{
		Entries: []EntryPlan{
			{Name: "immediate", Pattern: immediate, Duration: 1},
			{Name: "delayed", Pattern: delayed, Duration: 1, StartDelay: 0.5},
		},
	}}}
	h := newHarness([]*StagePlan{stage}, testOptions(nil))

	for i := 0; i < 4; i++ {
		h.tick(tickDt)
	}
	if immediate.fires == 0 {
		t.Error("immediate pattern should have fired")
	}
	if delayed.fires != 0 {
		t.Errorf("delayed pattern fired %d times during its start delay", delayed.fires)
	}

	// 运行至组结束：带延迟的实例在 duration + startDelay 后移除
	if !h.runUntil(tickDt, 30, func() bool { return h.seq.RunningCount() == 1 }) {
		t.Fatal("immediate instance never finished")
	}
	if !h.runUntil(tickDt, 30, func() bool { return h.seq.RunningCount() == 0 }) {
		t.Fatal("delayed instance never finished")
	}
	if h.now < 1.45 {
		t.Errorf("delayed instance removed at t=%.2f, want ≈1.5", h.now)
	}
	if delayed.fires == 0 {
		t.Error("delayed pattern never fired")
	}
	// 发射时间从启动延迟结束后开始计
	if delayed.times[0] < 0 || delayed.times[0] > 0.3 {
		t.Errorf("delayed pattern first fire time %.2f, want pattern-local time", delayed.times[0])
	}
}

// TestSequencerGroupDelay 组延迟期间不运行图案
func TestSequencerGroupDelay(t *testing.T) {
	p := &countingPattern{rate: 0.1}
	group := singleEntryGroup(p, 1)
	group.Delay = 0.5

	h := newHarness([]*StagePlan{{Groups: []GroupPlan{group}}}, testOptions(nil))

	h.tick(tickDt)
	if h.seq.State() != components.SequencerGroupDelay {
		t.Fatalf("expected GroupDelay, got %v", h.seq.State())
	}
	if !h.runUntil(tickDt, 10, func() bool { return h.seq.State() == components.SequencerGroupRunning }) {
		t.Fatal("group never started after delay")
	}
	if h.now < 0.45 {
		t.Errorf("group started at t=%.2f, before its delay", h.now)
	}
}

// TestSequencerForceExpiresOnStageComplete 关卡完成时残留子弹被转换并计分
func TestSequencerForceExpiresOnStageComplete(t *testing.T) {
	h := newHarness([]*StagePlan{{ID: "empty"}}, testOptions(nil))

	for i := 0; i < 3; i++ {
		h.pool.Spawn(utils.Vec2{}, utils.Vec2{X: 1}, 0, 1, "still")
	}

	h.tick(tickDt)
	if h.pool.ActiveCount() != 0 {
		t.Errorf("expected all bullets converted, %d remain", h.pool.ActiveCount())
	}
	if h.score.expired != 3 {
		t.Errorf("expected 3 converted bullets credited, got %d", h.score.expired)
	}
}

// TestSequencerDialogueWithoutNarrator 没有叙事协作者时跳过对话
func TestSequencerDialogueWithoutNarrator(t *testing.T) {
	group := singleEntryGroup(&countingPattern{rate: 0.1}, 0.2)
	group.Dialogue = "talk"

	h := newHarness([]*StagePlan{{Groups: []GroupPlan{group}}}, testOptions(nil))
	if !h.runUntil(tickDt, 30, func() bool { return h.seq.State() == components.SequencerStageComplete }) {
		t.Fatalf("stage should complete without narrator, state=%v", h.seq.State())
	}
}

// TestSequencerLoadStageResets 重新加载关卡清空所有计数器
func TestSequencerLoadStageResets(t *testing.T) {
	p := &countingPattern{rate: 0.1}
	stage := &StagePlan{Groups: []GroupPlan{singleEntryGroup(p, 5)}}
	h := newHarness([]*StagePlan{stage}, testOptions(nil))

	for i := 0; i < 5; i++ {
		h.tick(tickDt)
	}
	if h.seq.RunningCount() != 1 {
		t.Fatalf("expected a running instance, got %d", h.seq.RunningCount())
	}

	if err := h.seq.LoadStage(0); err != nil {
		t.Fatalf("LoadStage failed: %v", err)
	}
	if h.seq.RunningCount() != 0 || h.seq.CurrentGroupIndex() != -1 || h.seq.StageTime() != 0 {
		t.Errorf("LoadStage did not reset: running=%d group=%d time=%.2f",
			h.seq.RunningCount(), h.seq.CurrentGroupIndex(), h.seq.StageTime())
	}
	if h.seq.State() != components.SequencerAwaitingGroup {
		t.Errorf("state after reload: %v", h.seq.State())
	}

	if err := h.seq.LoadStage(3); err == nil {
		t.Error("out-of-range stage index should return an error")
	}
}

// TestSequencerProgressQueries HUD 查询
func TestSequencerProgressQueries(t *testing.T) {
	stage := &StagePlan{Name: "Garden", Groups: []GroupPlan{
		singleEntryGroup(&countingPattern{rate: 1}, 1),
		singleEntryGroup(&countingPattern{rate: 1}, 1),
		singleEntryGroup(&countingPattern{rate: 1}, 1),
	}}
	h := newHarness([]*StagePlan{stage, {Name: "Empty"}}, testOptions(nil))

	if h.seq.TotalStages() != 2 || h.seq.TotalGroupsInCurrentStage() != 3 {
		t.Errorf("totals: stages=%d groups=%d", h.seq.TotalStages(), h.seq.TotalGroupsInCurrentStage())
	}
	if h.seq.CurrentGroupIndex() != -1 {
		t.Errorf("no group started yet, got %d", h.seq.CurrentGroupIndex())
	}
	h.tick(tickDt)
	if h.seq.CurrentGroupIndex() != 0 || h.seq.CurrentStageName() != "Garden" {
		t.Errorf("after first tick: group=%d stage=%s", h.seq.CurrentGroupIndex(), h.seq.CurrentStageName())
	}
}

// TestGameplayRealTimeDecoupling 对话冻结游戏时间，打字机继续按真实时间推进
func TestGameplayRealTimeDecoupling(t *testing.T) {
	clock := &fakeClock{scale: 1}
	h := newHarness(nil, testOptions(nil))
	dialogue := NewDialogueSystem(h.em, clock, 0.05)

	group := GroupPlan{
		Dialogue:      "talk",
		DialogueLines: []components.DialogueLine{{Speaker: "Flower", Text: "Hello, traveller. Stay a while."}},
	}
	stage := &StagePlan{Groups: []GroupPlan{group, singleEntryGroup(&countingPattern{rate: 0.1}, 1)}}

	opts := testOptions(dialogue)
	opts.DialogueSafeDelay = 0
	opts.Score = h.score
	h.seq = NewStageSequencerSystem(h.em, h.pool, []*StagePlan{stage}, opts)

	step := func(realDt float64) {
		gameDt := clock.gameDt(realDt)
		dialogue.Update(realDt)
		h.projectiles.Update(gameDt)
		h.seq.Update(gameDt)
	}

	step(tickDt)
	if h.seq.State() != components.SequencerDialogueActive {
		t.Fatalf("expected dialogue after empty group, got %v", h.seq.State())
	}
	if clock.scale != 0 {
		t.Fatalf("dialogue should freeze gameplay time, scale=%v", clock.scale)
	}

	stageTime := h.seq.StageTime()
	for i := 0; i < 5; i++ {
		step(tickDt)
	}

	if h.seq.StageTime() != stageTime {
		t.Errorf("sequencer timers advanced while frozen: %.2f -> %.2f", stageTime, h.seq.StageTime())
	}
	_, visible, ok := dialogue.CurrentLine()
	if !ok || len([]rune(visible)) != 10 {
		t.Errorf("typewriter should reveal 10 runes in 0.5s real time, got %q", visible)
	}

	dialogue.Skip()
	if clock.scale != 1 {
		t.Errorf("time scale not restored after dialogue: %v", clock.scale)
	}

	step(tickDt)
	if h.seq.CurrentGroupIndex() != 1 {
		t.Errorf("sequencer should resume with group 2, got group %d", h.seq.CurrentGroupIndex())
	}
}

// TestSequencerUsesRadialPattern 使用真实图案驱动子弹池
func TestSequencerUsesRadialPattern(t *testing.T) {
	radial := &patterns.RotatingRadialPattern{Rate: 0.2, Speed: 2, Petals: 8, RotationSpeed: 30, Sprite: "petal"}
	stage := &StagePlan{Groups: []GroupPlan{singleEntryGroup(radial, 0.5)}}
	h := newHarness([]*StagePlan{stage}, testOptions(nil))

	for i := 0; i < 3; i++ {
		h.tick(tickDt)
	}
	if h.pool.ActiveCount() != 8 {
		t.Errorf("expected one ring of 8 bullets, got %d", h.pool.ActiveCount())
	}
}
