package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gonewx/fouhou/pkg/app"
	"github.com/gonewx/fouhou/pkg/config"
	"github.com/gonewx/fouhou/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	stage      = flag.Int("stage", 0, "从指定关卡开始（1-based）")
	configPath = flag.String("config", config.DefaultGameConfigPath, "游戏配置文件（嵌入资源路径）")
	offline    = flag.Bool("offline", false, "不提交分数")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Stage:      *stage,
		Offline:    *offline,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "游戏初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Fouhou")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(gameApp.TickRate())

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Printf("[Main] Game exited with error: %v", err)
	}
}
