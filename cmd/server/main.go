package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/lightbike-next/internal/app"
	"github.com/lightbike-next/internal/config"
	"github.com/lightbike-next/internal/logger"
	"github.com/lightbike-next/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiGreen = "\033[32m"
	ansiCyan  = "\033[36m"
)

func main() {
	printStartupBanner()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if cfg.Server.Mode == "release" {
		if isWeakSecret(cfg.View.TokenSecret) {
			stdLog.Fatalf("视图令牌密钥过弱或仍为默认值，请在生产环境中配置强随机密钥")
		}
	} else if isWeakSecret(cfg.View.TokenSecret) {
		stdLog.Printf("警告: 视图令牌密钥过弱或仍为默认值，建议在生产环境中更换")
	}

	// 初始化数据库（突变审计）
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
	logger.Sync()
}

func printStartupBanner() {
	fmt.Println(ansiCyan + "╔══════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiCyan + "║         Lightbike cart view API              ║" + ansiReset)
	fmt.Println(ansiCyan + "╚══════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "modes: all | api | worker" + ansiReset)
	fmt.Println(ansiDim + "------------------------------------------------" + ansiReset)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
