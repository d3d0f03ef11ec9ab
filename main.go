// Fireworks 桌面端入口
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--config <path>     YAML 配置文件（覆盖在默认配置之上）
//	--profile <name>    内置配置 rich 或 classic；留空时桌面端 rich、移动端 classic
//	--width/--height    初始窗口尺寸
//	--verbose           输出详细日志
//
// Controls:
//
//	Mouse Click / Touch - 在点击处发射烟花（点击高度即爆炸高度）
//	Mouse Move / Drag   - 指针后方飘出爱心
//	Space               - 随机位置发射
//	0-7                 - 选择点击发射的类型（0 随机，1 普通 … 7 菊花）
//	Tab                 - 切换配置
//	P                   - 暂停
//	R                   - 清空粒子
//	F3                  - 调试信息
//	F11                 - 全屏
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/decker502/fireworks/pkg/app"
	"github.com/decker502/fireworks/pkg/config"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	configFlag  = flag.String("config", "", "YAML config file overlaid on the defaults")
	profileFlag = flag.String("profile", "", "built-in profile ("+strings.Join(config.Profiles(), ", ")+"); empty picks "+config.DefaultProfile+" on desktop, "+app.MobileProfile+" on mobile")
	widthFlag   = flag.Int("width", config.DefaultWidth, "initial window width")
	heightFlag  = flag.Int("height", config.DefaultHeight, "initial window height")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()

	fireworks, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configFlag,
		Profile:    *profileFlag,
		Width:      *widthFlag,
		Height:     *heightFlag,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(*widthFlag, *heightFlag)
	ebiten.SetWindowTitle("Fireworks")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err = ebiten.RunGame(fireworks)
	fireworks.GetSceneManager().Stop()
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
	log.Println("[Main] Fireworks closed")
}
