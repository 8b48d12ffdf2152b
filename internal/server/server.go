// Package server WebSocket 服务器：连接管理、安全检查、广播和优雅关闭
package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/config"
	gamesession "github.com/palemoky/take-eleven/internal/game/session"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
	"github.com/palemoky/take-eleven/internal/server/handler"
	"github.com/palemoky/take-eleven/internal/server/session"
	"github.com/palemoky/take-eleven/internal/server/storage"
)

// Server WebSocket 服务器
type Server struct {
	config  *config.Config
	log     *zap.Logger
	wire    codec.Wire
	redis   *redis.Client // 未启用时为空
	handler *handler.Handler

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 安全组件
	upgrader       websocket.Upgrader
	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter
	ipFilter       *IPFilter

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	// 维护模式
	maintenanceMode bool
	maintenanceMu   sync.RWMutex

	httpServer  *http.Server
	stopMonitor chan struct{}
	stopOnce    sync.Once
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}

	wire, err := codec.ForName(cfg.Server.Codec)
	if err != nil {
		return nil, err
	}
	ipFilter, err := NewIPFilter(cfg.Security.AllowIPs, cfg.Security.DenyIPs)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:  cfg,
		log:     log,
		wire:    wire,
		clients: make(map[string]*Client),
		rateLimiter: NewRateLimiter(
			cfg.Security.RateLimit.MaxPerSecond,
			cfg.Security.RateLimit.MaxPerMinute,
			cfg.Security.RateLimit.BanDurationTime(),
		),
		originChecker:  NewOriginChecker(cfg.Security.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(cfg.Security.MessageLimit.MaxPerSecond),
		ipFilter:       ipFilter,
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		stopMonitor:    make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// 来源在升级前已经检查过
		CheckOrigin: func(*http.Request) bool { return true },
	}

	deps := handler.HandlerDeps{
		Server: s,
		Game: gamesession.NewGameSession(gamesession.Config{
			MinPlayers: cfg.Game.MinPlayers,
			MaxPlayers: cfg.Game.MaxPlayers,
			HandSize:   cfg.Game.HandSize,
			FreeBull:   cfg.Game.FreeBull,
		}, nil),
		SessionManager: session.NewSessionManager(),
		Logger:         log,
		CleanupDelay:   cfg.Game.CleanupDelayDuration(),
	}

	if cfg.Redis.IsEnabled() {
		rdb, err := connectRedis(cfg.Redis)
		if err != nil {
			s.rateLimiter.Stop()
			return nil, err
		}
		s.redis = rdb
		deps.History = storage.NewRedisStore(rdb, cfg.Redis.HistorySize)
		deps.Leaderboard = storage.NewLeaderboardManager(rdb)
		log.Info("🗄️ 已连接 Redis，记录对局历史和排行榜", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Info("🗄️ 未启用 Redis，不记录对局历史和排行榜")
	}
	s.handler = handler.NewHandler(deps)

	log.Sugar().Infof("🔒 安全配置: 连接限制=%d/s, 消息限制=%d/s, 最大连接数=%d, 编码=%s",
		cfg.Security.RateLimit.MaxPerSecond, cfg.Security.MessageLimit.MaxPerSecond,
		cfg.Server.MaxConnections, wire.Name())

	return s, nil
}

func connectRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}
	return rdb, nil
}

// Routes 返回 HTTP 路由
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Addr 监听地址
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *Server) Start() error {
	addr := s.Addr()

	// 启动监控 goroutine
	go s.monitorStats(30 * time.Second)

	s.log.Sugar().Infof("🚀 服务器启动在 ws://%s/ws (CPU核心数: %d)", addr, runtime.NumCPU())
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
