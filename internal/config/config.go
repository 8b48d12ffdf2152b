package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultHost           = "0.0.0.0"
	defaultPort           = 1780
	defaultMaxConnections = 1000
	defaultCodec          = "json"

	defaultRedisAddr   = "localhost:6379"
	defaultHistorySize = 20

	defaultMinPlayers            = 2
	defaultMaxPlayers            = 7
	defaultHandSize              = 10
	defaultFreeBull              = 10
	defaultShutdownTimeout       = 30 // 分钟
	defaultShutdownCheckInterval = 10 // 秒
	defaultCleanupDelay          = 5  // 秒

	defaultRateMaxPerSecond    = 10
	defaultRateMaxPerMinute    = 60
	defaultRateBanDuration     = 60
	defaultMessageMaxPerSecond = 20

	defaultLogLevel = "info"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
	Codec          string `yaml:"codec"` // json | proto
}

// RedisConfig Redis 配置，enabled 为 false 时不记录历史和排行榜
type RedisConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	Addr        string `yaml:"addr"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	HistorySize int    `yaml:"history_size"` // 保留最近多少局
}

// IsEnabled 未配置时默认开启
func (c *RedisConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// GameConfig 游戏配置
type GameConfig struct {
	MinPlayers            int `yaml:"min_players"`
	MaxPlayers            int `yaml:"max_players"`
	HandSize              int `yaml:"hand_size"`
	FreeBull              int `yaml:"free_bull"`
	ShutdownTimeout       int `yaml:"shutdown_timeout"`        // 优雅关闭最长等待（分钟）
	ShutdownCheckInterval int `yaml:"shutdown_check_interval"` // 优雅关闭检查间隔（秒）
	CleanupDelay          int `yaml:"cleanup_delay"`           // 连接断开后注销玩家的延迟（秒）
}

// ShutdownTimeoutDuration 返回优雅关闭最长等待时长
func (c *GameConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Minute
}

// ShutdownCheckIntervalDuration 返回优雅关闭检查间隔
func (c *GameConfig) ShutdownCheckIntervalDuration() time.Duration {
	return time.Duration(c.ShutdownCheckInterval) * time.Second
}

// CleanupDelayDuration 返回注销延迟
func (c *GameConfig) CleanupDelayDuration() time.Duration {
	return time.Duration(c.CleanupDelay) * time.Second
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"`
	AllowIPs       []string           `yaml:"allow_ips"` // 地址或 CIDR，为空时不限制
	DenyIPs        []string           `yaml:"deny_ips"`
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
}

// RateLimitConfig 连接速率限制（按 IP）
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // 秒
}

// BanDurationTime 返回封禁时长
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// MessageLimitConfig 消息速率限制（按连接）
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level       string `yaml:"level"` // debug | info | warn | error
	Development bool   `yaml:"development"`
	File        string `yaml:"file"` // 为空时输出到 stderr
}

// Load 加载配置文件，环境变量优先于文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	setDefault(&cfg.Server.Host, defaultHost)
	setDefault(&cfg.Server.Port, defaultPort)
	setDefault(&cfg.Server.MaxConnections, defaultMaxConnections)
	setDefault(&cfg.Server.Codec, defaultCodec)

	setDefault(&cfg.Redis.Addr, defaultRedisAddr)
	setDefault(&cfg.Redis.HistorySize, defaultHistorySize)

	setDefault(&cfg.Game.MinPlayers, defaultMinPlayers)
	setDefault(&cfg.Game.MaxPlayers, defaultMaxPlayers)
	setDefault(&cfg.Game.HandSize, defaultHandSize)
	setDefault(&cfg.Game.FreeBull, defaultFreeBull)
	setDefault(&cfg.Game.ShutdownTimeout, defaultShutdownTimeout)
	setDefault(&cfg.Game.ShutdownCheckInterval, defaultShutdownCheckInterval)
	setDefault(&cfg.Game.CleanupDelay, defaultCleanupDelay)

	if len(cfg.Security.AllowedOrigins) == 0 {
		cfg.Security.AllowedOrigins = []string{"*"}
	}
	setDefault(&cfg.Security.RateLimit.MaxPerSecond, defaultRateMaxPerSecond)
	setDefault(&cfg.Security.RateLimit.MaxPerMinute, defaultRateMaxPerMinute)
	setDefault(&cfg.Security.RateLimit.BanDuration, defaultRateBanDuration)
	setDefault(&cfg.Security.MessageLimit.MaxPerSecond, defaultMessageMaxPerSecond)

	setDefault(&cfg.Log.Level, defaultLogLevel)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

// applyEnv 用环境变量覆盖配置（容器部署时使用）
func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v, ok := envInt("SERVER_PORT"); ok {
		cfg.Server.Port = v
	}
	if v := os.Getenv("SERVER_CODEC"); v != "" {
		cfg.Server.Codec = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err == nil {
			cfg.Redis.Enabled = &enabled
		}
	}
	if v, ok := envInt("GAME_MAX_PLAYERS"); ok {
		cfg.Game.MaxPlayers = v
	}
	if v := os.Getenv("SECURITY_ALLOWED_ORIGINS"); v != "" {
		cfg.Security.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("SECURITY_DENY_IPS"); v != "" {
		cfg.Security.DenyIPs = strings.Split(v, ",")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
