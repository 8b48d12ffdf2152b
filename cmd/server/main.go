package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/config"
	"github.com/palemoky/take-eleven/internal/logger"
	"github.com/palemoky/take-eleven/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("加载配置文件失败，使用默认配置: %v", err)
		cfg = config.Default()
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	printBanner(cfg)

	// 创建服务器
	srv, err := server.NewServer(cfg, zlog)
	if err != nil {
		zlog.Fatal("创建服务器失败", zap.Error(err))
	}

	// 优雅关闭：等当前这一局打完
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		zlog.Info("正在关闭服务器...", zap.String("signal", sig.String()))
		srv.GracefulShutdown(cfg.Game.ShutdownTimeoutDuration())
		_ = zlog.Sync()
		os.Exit(0)
	}()

	// 启动服务器
	if err := srv.Start(); err != nil {
		zlog.Fatal("服务器启动失败", zap.Error(err))
	}
}

func printBanner(cfg *config.Config) {
	title := color.New(color.FgHiYellow, color.Bold).SprintFunc()
	info := color.New(color.FgHiCyan).SprintfFunc()

	fmt.Fprintln(color.Output, title("🐮 Take Eleven 牛头服务器"))
	fmt.Fprintln(color.Output, info("   监听 ws://%s:%d/ws | %d-%d 人 | 每人 %d 张 | 编码 %s",
		cfg.Server.Host, cfg.Server.Port,
		cfg.Game.MinPlayers, cfg.Game.MaxPlayers, cfg.Game.HandSize, cfg.Server.Codec))
	if !cfg.Redis.IsEnabled() {
		fmt.Fprintln(color.Output, color.HiBlackString("   Redis 未启用，不记录历史和排行榜"))
	}
}
