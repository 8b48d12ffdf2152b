package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/palemoky/take-eleven/internal/config"
)

// maxLogSize 客户端日志超过该大小时轮转
const maxLogSize = 10 * 1024 * 1024

// New 根据配置创建服务端 logger
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}

	return zc.Build()
}

// NewFile 创建只写文件的 logger（TUI 客户端使用，避免日志打乱界面）
// path 为空时写到 ~/.take-eleven/debug.log
func NewFile(path string) (*zap.Logger, string, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".take-eleven", "debug.log")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create log directory: %w", err)
	}

	// Rotate if file is too large
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		backupPath := fmt.Sprintf("%s.%d", path, time.Now().Unix())
		_ = os.Rename(path, backupPath)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), zapcore.DebugLevel)
	log := zap.New(core, zap.AddCaller())
	log.Info("Logger initialized", zap.String("path", path))
	return log, path, nil
}
