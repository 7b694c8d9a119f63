// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，main.go 和 cmd 工具都通过 NewApp()
// 或 NewSession() 组装同一套系统。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/gonewx/fouhou/pkg/components"
	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/game"
	"github.com/gonewx/fouhou/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 逻辑屏幕尺寸
const (
	ScreenWidth  = 960
	ScreenHeight = 540
)

// gdata 应用名
const storageAppName = "fouhou"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 游戏配置文件路径（嵌入资源内）
	ConfigPath string
	// Stage 起始关卡（1-based），0 表示从第一关开始
	Stage int
	// Offline 禁用分数提交
	Offline bool
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
//
// 每个 tick 的顺序：
//  1. 时钟推进（真实时间 → 游戏时间）
//  2. 对话（真实时间）
//  3. 玩家与护盾（游戏时间）
//  4. 子弹移动与回收
//  5. 关卡编排
//  6. 计分计时
type App struct {
	session *Session
	verbose bool

	save      *game.SaveManager
	submitter *game.ScoreSubmitter
	inputLog  *game.InputLogger

	ctx    context.Context
	cancel context.CancelFunc

	viewport utils.Viewport
	keys     map[string]bool

	resultRecorded bool
	status         string
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	path := cfg.ConfigPath
	if path == "" {
		path = config.DefaultGameConfigPath
	}
	gameCfg, err := config.LoadGameConfig(path)
	if err != nil {
		return nil, fmt.Errorf("游戏配置加载失败: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		verbose: cfg.Verbose,
		ctx:     ctx,
		cancel:  cancel,
		keys:    make(map[string]bool),
		viewport: utils.Viewport{
			ScreenWidth:  ScreenWidth,
			ScreenHeight: ScreenHeight,
			Left:         gameCfg.Bounds.Left,
			Right:        gameCfg.Bounds.Right,
			Top:          gameCfg.Bounds.Top,
			Bottom:       gameCfg.Bounds.Bottom,
		},
	}

	a.save = game.NewSaveManager(game.OpenStorage(storageAppName))
	profile := a.save.Profile()

	var sink game.ScoreSink
	if !cfg.Offline {
		a.submitter = game.NewScoreSubmitter(gameCfg.Submit, profile.UserID, profile.Username, a.save)
		sink = game.ScoreSinkFunc(func(score int) {
			a.status = "Submitting score..."
			a.submitter.SubmitAsync(a.ctx, score)
		})

		// 上次未能提交的分数
		if len(a.save.PendingSubmissions()) > 0 {
			a.submitter.FlushPendingAsync(a.ctx)
		}
	}

	a.session, err = NewSession(gameCfg, sink)
	if err != nil {
		cancel()
		return nil, err
	}

	if cfg.Stage > 0 {
		if err := a.session.Sequencer.LoadStage(cfg.Stage - 1); err != nil {
			cancel()
			return nil, fmt.Errorf("无法跳转到关卡 %d: %w", cfg.Stage, err)
		}
	}

	if gameCfg.Input.Enabled {
		a.inputLog, err = game.OpenInputLog(gameCfg.Input.Dir, gameCfg.Input.Format)
		if err != nil {
			log.Printf("[App] Warning: input logging disabled: %v", err)
		}
	}

	log.Printf("[App] Player %s ready, %d stage(s) loaded", profile.Username, a.session.Sequencer.TotalStages())
	return a, nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次
func (a *App) Update() error {
	realDt := 1.0 / float64(ebiten.TPS())
	s := a.session

	if s.Dialogue.IsActive() {
		if utils.IsSkipPressed() {
			s.Dialogue.Skip()
		} else if utils.IsAdvancePressed() {
			s.Dialogue.Advance()
		}
	}

	move := utils.MovementInput()
	a.logInput()

	_, died := s.Tick(realDt, move)
	if died {
		a.status = "Game over"
	}

	a.recordResult()
	a.pollSubmissions()
	return nil
}

// logInput 记录移动键的按下与释放
func (a *App) logInput() {
	if a.inputLog == nil {
		return
	}
	pos := a.session.Player.Position()
	for _, k := range utils.MovementKeys {
		pressed := ebiten.IsKeyPressed(k.Key)
		if pressed == a.keys[k.Name] {
			continue
		}
		a.keys[k.Name] = pressed
		err := a.inputLog.Log(game.InputEvent{
			Time:     a.session.Clock.RealTime(),
			GameTime: a.session.Clock.GameTime(),
			Key:      k.Name,
			Pressed:  pressed,
			PlayerX:  pos.X,
			PlayerY:  pos.Y,
		})
		if err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}
}

// recordResult 本局结束时写入存档（只写一次）
func (a *App) recordResult() {
	ledger := a.session.Ledger
	if a.resultRecorded || !ledger.Finished() {
		return
	}
	a.resultRecorded = true

	newHigh, err := a.save.RecordResult(ledger.Score(), ledger.SurvivalTime(), ledger.IsGameCompleted())
	if err != nil {
		log.Printf("[App] Warning: failed to record result: %v", err)
	}
	if newHigh {
		a.status = "New high score!"
	}
	if ledger.IsGameCompleted() && a.submitter == nil {
		a.status = "Game complete!"
	}
}

// pollSubmissions 非阻塞读取提交结果
func (a *App) pollSubmissions() {
	if a.submitter == nil {
		return
	}
	select {
	case res := <-a.submitter.Results():
		if res.Err != nil {
			a.status = "Score saved, will retry later"
		} else {
			a.status = fmt.Sprintf("Score submitted, ranking #%d", res.Data.Ranking)
		}
	default:
	}
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 10, B: 24, A: 255})
	s := a.session

	// 游戏区域
	x0, y0 := a.viewport.WorldToScreen(a.viewport.Left, a.viewport.Top)
	x1, y1 := a.viewport.WorldToScreen(a.viewport.Right, a.viewport.Bottom)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, color.RGBA{R: 80, G: 80, B: 120, A: 255}, false)

	scale := a.viewport.Scale()
	bulletColor := color.RGBA{R: 255, G: 120, B: 200, A: 255}
	for _, id := range s.Pool.Active() {
		_, pos, ok := s.Pool.Get(id)
		if !ok {
			continue
		}
		sx, sy := a.viewport.WorldToScreen(pos.X, pos.Y)
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(0.08*scale), bulletColor, true)
	}

	// 玩家
	p := s.Player.Position()
	px, py := a.viewport.WorldToScreen(p.X, p.Y)
	playerColor := color.RGBA{R: 120, G: 220, B: 255, A: 255}
	if s.Health.IsShielded(s.Player.PlayerID()) {
		playerColor = color.RGBA{R: 255, G: 255, B: 255, A: 160}
	}
	vector.DrawFilledCircle(screen, float32(px), float32(py), float32(s.Config.Player.HitRadius*scale), playerColor, true)

	ebitenutil.DebugPrintAt(screen, a.hudText(), 8, 8)

	if line, visible, ok := s.Dialogue.CurrentLine(); ok {
		vector.DrawFilledRect(screen, 40, ScreenHeight-110, ScreenWidth-80, 80, color.RGBA{A: 200}, false)
		ebitenutil.DebugPrintAt(screen, line.Speaker+":", 56, ScreenHeight-100)
		ebitenutil.DebugPrintAt(screen, visible, 56, ScreenHeight-80)
		if s.Dialogue.State() == components.DialogueWaiting {
			ebitenutil.DebugPrintAt(screen, "[Space] next  [Esc] skip", ScreenWidth-220, ScreenHeight-48)
		}
	}
}

func (a *App) hudText() string {
	s := a.session
	hp, maxHP := s.Player.Health()
	text := fmt.Sprintf("Score %s   Time %s   HP %.0f/%.0f\nStage %d/%d   Group %d/%d   Bullets %d",
		utils.FormatScore(s.Ledger.Score()),
		utils.FormatTime(s.Ledger.SurvivalTime()),
		hp, maxHP,
		s.Sequencer.CurrentStageIndex()+1, s.Sequencer.TotalStages(),
		s.Sequencer.CurrentGroupIndex()+1, s.Sequencer.TotalGroupsInCurrentStage(),
		s.Pool.ActiveCount(),
	)
	if a.verbose {
		text += fmt.Sprintf("\nState %s   TPS %.0f", s.Sequencer.State(), ebiten.ActualTPS())
	}
	if a.status != "" {
		text += "\n" + a.status
	}
	return text
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// TickRate 配置的每秒逻辑帧数
func (a *App) TickRate() int {
	return a.session.Config.TickRate
}

// Close 结束后台提交并关闭输入日志
// 未完成的提交会因 context 取消而进入待提交队列
func (a *App) Close() {
	a.cancel()
	if a.submitter != nil {
		a.submitter.Wait()
	}
	if a.inputLog != nil {
		if err := a.inputLog.Close(); err != nil {
			log.Printf("[App] Warning: failed to close input log: %v", err)
		}
	}
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
