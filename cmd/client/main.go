package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/logger"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
	"github.com/palemoky/take-eleven/internal/sound"
	"github.com/palemoky/take-eleven/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1780", "服务器地址")
	wireName := flag.String("codec", codec.WireJSON, "编码 (json | proto)，需与服务器一致")
	playerID := flag.String("id", "", "玩家 ID，留空时自动生成")
	logPath := flag.String("log", "", "日志文件路径，默认 ~/.take-eleven/debug.log")
	soundDir := flag.String("sounds", sound.DefaultDir, "音效目录 (turn/bull/steal/end 的 mp3 或 wav)")
	flag.Parse()

	wire, err := codec.ForName(*wireName)
	if err != nil {
		log.Fatalf("编码参数错误: %v", err)
	}

	zlog, path, err := logger.NewFile(*logPath)
	if err != nil {
		log.Printf("无法创建日志文件，日志将被丢弃: %v", err)
		zlog = zap.NewNop()
	}
	defer func() { _ = zlog.Sync() }()

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)
	zlog.Info("启动客户端", zap.String("server", serverURL), zap.String("codec", wire.Name()), zap.String("log", path))

	model := ui.NewOnlineModel(serverURL, wire, *playerID, *soundDir, zlog)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
