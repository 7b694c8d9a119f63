// simulate_stage 无窗口运行关卡编排，输出状态转换与计分
//
// 用法：
//
//	go run ./cmd/simulate_stage
//	go run ./cmd/simulate_stage --stage-file data/stages/stage-2.yaml --invincible
//	go run ./cmd/simulate_stage --dt 0.1 --max-time 300
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gonewx/fouhou/pkg/app"
	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/embedded"
	"github.com/gonewx/fouhou/pkg/game"
	"github.com/gonewx/fouhou/pkg/utils"
)

var (
	root       = flag.String("root", ".", "项目根目录（包含 data/）")
	configPath = flag.String("config", config.DefaultGameConfigPath, "游戏配置文件")
	stageFile  = flag.String("stage-file", "", "只模拟指定关卡文件")
	dt         = flag.Float64("dt", 1.0/60.0, "每帧真实时间（秒）")
	maxTime    = flag.Float64("max-time", 600, "最长模拟时间（真实时间，秒）")
	invincible = flag.Bool("invincible", false, "玩家不会死亡")
	verbose    = flag.Bool("verbose", false, "显示详细日志")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	embedded.Init(os.DirFS(*root))

	cfg, err := config.LoadGameConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *stageFile != "" {
		cfg.Stages = []string{*stageFile}
	}
	if *invincible {
		cfg.Player.MaxHealth = 1e12
	}

	sink := game.ScoreSinkFunc(func(score int) {
		fmt.Printf("submit: final score %s\n", utils.FormatScore(score))
	})

	session, err := app.NewSession(cfg, sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create session: %v\n", err)
		os.Exit(1)
	}

	result := simulate(os.Stdout, session, *dt, *maxTime, *verbose)
	printSummary(os.Stdout, session, result)
	if result == resultTimeout {
		os.Exit(2)
	}
}

type simResult int

const (
	resultCompleted simResult = iota
	resultDied
	resultTimeout
)

// simulate 运行到通关、死亡或超时
// 对话一出现就跳过，玩家停在出生点
func simulate(w io.Writer, s *app.Session, dt, maxTime float64, showStates bool) simResult {
	seq := s.Sequencer
	lastState := seq.State()
	lastStage, lastGroup := -1, -1

	for s.Clock.RealTime() < maxTime {
		if seq.IsGameComplete() {
			return resultCompleted
		}

		if line, _, ok := s.Dialogue.CurrentLine(); ok {
			fmt.Fprintf(w, "[%s] dialogue %s: %s\n", utils.FormatTime(s.Clock.GameTime()), line.Speaker, line.Text)
			s.Dialogue.Skip()
		}

		if _, died := s.Tick(dt, utils.Vec2{}); died {
			fmt.Fprintf(w, "[%s] player died\n", utils.FormatTime(s.Clock.GameTime()))
			return resultDied
		}

		if stage := seq.CurrentStageIndex(); stage != lastStage {
			lastStage = stage
			fmt.Fprintf(w, "[%s] stage %d/%d %q\n", utils.FormatTime(s.Clock.GameTime()), stage+1, seq.TotalStages(), seq.CurrentStageName())
		}
		if group := seq.CurrentGroupIndex(); group != lastGroup && group >= 0 {
			lastGroup = group
			fmt.Fprintf(w, "[%s]   group %d/%d (%d pattern(s))\n", utils.FormatTime(s.Clock.GameTime()), group+1, seq.TotalGroupsInCurrentStage(), seq.RunningCount())
		}
		if state := seq.State(); state != lastState {
			if showStates {
				fmt.Fprintf(w, "[%s]   %s -> %s\n", utils.FormatTime(s.Clock.GameTime()), lastState, state)
			}
			if state == components.SequencerStageComplete {
				fmt.Fprintf(w, "[%s] stage cleared, score %s\n", utils.FormatTime(s.Clock.GameTime()), utils.FormatScore(s.Ledger.Score()))
			}
			lastState = state
		}
	}

	if s.Sequencer.IsGameComplete() {
		return resultCompleted
	}
	return resultTimeout
}

func printSummary(w io.Writer, s *app.Session, result simResult) {
	outcome := map[simResult]string{
		resultCompleted: "completed",
		resultDied:      "died",
		resultTimeout:   "timed out",
	}[result]

	hp, maxHP := s.Player.Health()
	fmt.Fprintf(w, "\nresult:    %s\n", outcome)
	fmt.Fprintf(w, "score:     %s\n", utils.FormatScore(s.Ledger.Score()))
	fmt.Fprintf(w, "survived:  %s (%d bonus minute(s))\n", utils.FormatTime(s.Ledger.SurvivalTime()), s.Ledger.MinutesSurvived())
	fmt.Fprintf(w, "expired:   %d bullet(s)\n", s.Ledger.BulletsExpired())
	fmt.Fprintf(w, "health:    %.0f/%.0f\n", hp, maxHP)
	fmt.Fprintf(w, "pool:      %d active, %d dropped, capacity %d\n", s.Pool.ActiveCount(), s.Pool.Dropped(), s.Pool.Capacity())
	fmt.Fprintf(w, "stages:    %d/%d\n", s.Sequencer.CurrentStageIndex()+1, s.Sequencer.TotalStages())
}
