package server

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RateLimiter 按 IP 限制建立连接的速率
type RateLimiter struct {
	requests map[string]*clientRate
	mu       sync.Mutex

	// 配置
	maxPerSecond int
	maxPerMinute int
	banDuration  time.Duration

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

// clientRate 单个 IP 的计数
type clientRate struct {
	secondCount int
	minuteCount int
	lastSecond  time.Time
	lastMinute  time.Time
	bannedUntil time.Time
}

// 超过这个时间没有请求的记录会被清理
const rateRecordTTL = 10 * time.Minute

// NewRateLimiter 创建速率限制器，后台定期清理过期记录，用完调用 Stop
func NewRateLimiter(maxPerSecond, maxPerMinute int, banDuration time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests:     make(map[string]*clientRate),
		maxPerSecond: maxPerSecond,
		maxPerMinute: maxPerMinute,
		banDuration:  banDuration,
		now:          time.Now,
		stop:         make(chan struct{}),
	}
	go rl.cleanupLoop(5 * time.Minute)
	return rl
}

// Allow 检查是否允许这次连接，超限后封禁 banDuration
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rate, exists := rl.requests[ip]
	if !exists {
		rl.requests[ip] = &clientRate{secondCount: 1, minuteCount: 1, lastSecond: now, lastMinute: now}
		return true
	}

	if now.Before(rate.bannedUntil) {
		return false
	}

	if now.Sub(rate.lastSecond) >= time.Second {
		rate.secondCount = 0
		rate.lastSecond = now
	}
	if now.Sub(rate.lastMinute) >= time.Minute {
		rate.minuteCount = 0
		rate.lastMinute = now
	}

	rate.secondCount++
	rate.minuteCount++

	if rate.secondCount > rl.maxPerSecond || rate.minuteCount > rl.maxPerMinute {
		rate.bannedUntil = now.Add(rl.banDuration)
		zap.L().Warn("⚠️ IP 因请求过于频繁被暂时封禁", zap.String("ip", ip), zap.Duration("ban", rl.banDuration))
		return false
	}
	return true
}

// IsBanned 检查 IP 是否被封禁
func (rl *RateLimiter) IsBanned(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rate, exists := rl.requests[ip]
	return exists && rl.now().Before(rate.bannedUntil)
}

// Stop 停止后台清理
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

// cleanup 清理过期记录
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, rate := range rl.requests {
		if now.Sub(rate.lastMinute) > rateRecordTTL && now.After(rate.bannedUntil) {
			delete(rl.requests, ip)
		}
	}
}

// --- 来源验证 ---

// OriginChecker 来源验证器
type OriginChecker struct {
	allowedOrigins map[string]bool
	allowAll       bool
}

// NewOriginChecker 创建来源验证器，包含 "*" 时允许所有来源
func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{allowedOrigins: make(map[string]bool)}
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			oc.allowAll = true
			return oc
		}
		oc.allowedOrigins[strings.ToLower(origin)] = true
	}
	return oc
}

// Check 检查来源是否允许
func (oc *OriginChecker) Check(r *http.Request) bool {
	if oc.allowAll {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		// 终端客户端不带 Origin
		return true
	}
	return oc.allowedOrigins[strings.ToLower(origin)]
}

// --- IP 过滤 ---

// IPFilter 按 IP 或网段放行/拒绝连接，拒绝优先；放行列表为空时默认放行
type IPFilter struct {
	allow []netip.Prefix
	deny  []netip.Prefix
	mu    sync.RWMutex
}

// NewIPFilter 条目可以是单个地址或 CIDR 网段
func NewIPFilter(allow, deny []string) (*IPFilter, error) {
	f := &IPFilter{}
	for _, entry := range allow {
		if err := f.Allow(entry); err != nil {
			return nil, err
		}
	}
	for _, entry := range deny {
		if err := f.Deny(entry); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func parsePrefix(entry string) (netip.Prefix, error) {
	entry = strings.TrimSpace(entry)
	if strings.Contains(entry, "/") {
		p, err := netip.ParsePrefix(entry)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("invalid ip range %q: %w", entry, err)
		}
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(entry)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid ip %q: %w", entry, err)
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// Allow 加入放行列表
func (f *IPFilter) Allow(entry string) error {
	p, err := parsePrefix(entry)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allow = append(f.allow, p)
	return nil
}

// Deny 加入拒绝列表
func (f *IPFilter) Deny(entry string) error {
	p, err := parsePrefix(entry)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deny = append(f.deny, p)
	return nil
}

// Undeny 从拒绝列表移除完全相同的条目
func (f *IPFilter) Undeny(entry string) {
	p, err := parsePrefix(entry)
	if err != nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deny = slices.DeleteFunc(f.deny, func(d netip.Prefix) bool { return d == p })
}

// IsAllowed 无法解析的地址只在放行列表为空时放行
func (f *IPFilter) IsAllowed(ip string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return len(f.allow) == 0
	}
	addr = addr.Unmap()
	contains := func(p netip.Prefix) bool { return p.Contains(addr) }

	if slices.ContainsFunc(f.deny, contains) {
		return false
	}
	return len(f.allow) == 0 || slices.ContainsFunc(f.allow, contains)
}

// GetClientIP 获取客户端真实 IP，优先使用代理头
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// --- 消息速率限制 ---

// MessageRateLimiter 已连接客户端的消息速率限制
type MessageRateLimiter struct {
	limits map[string]*messageRate
	mu     sync.Mutex

	maxPerSecond     int
	warningThreshold int

	now func() time.Time
}

type messageRate struct {
	count     int
	lastReset time.Time
	warnings  int
}

// NewMessageRateLimiter 创建消息速率限制器，超过一半额度时开始警告
func NewMessageRateLimiter(maxPerSecond int) *MessageRateLimiter {
	return &MessageRateLimiter{
		limits:           make(map[string]*messageRate),
		maxPerSecond:     maxPerSecond,
		warningThreshold: maxPerSecond / 2,
		now:              time.Now,
	}
}

// AllowMessage 检查是否允许这条消息
func (ml *MessageRateLimiter) AllowMessage(clientID string) (allowed, warning bool) {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	now := ml.now()
	rate, exists := ml.limits[clientID]
	if !exists {
		ml.limits[clientID] = &messageRate{count: 1, lastReset: now}
		return true, false
	}

	if now.Sub(rate.lastReset) >= time.Second {
		rate.count = 1
		rate.lastReset = now
		return true, false
	}

	rate.count++
	if rate.count > ml.maxPerSecond {
		rate.warnings++
		return false, true
	}
	return true, rate.count > ml.warningThreshold
}

// GetWarningCount 获取超限次数
func (ml *MessageRateLimiter) GetWarningCount(clientID string) int {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if rate, exists := ml.limits[clientID]; exists {
		return rate.warnings
	}
	return 0
}

// RemoveClient 移除客户端记录
func (ml *MessageRateLimiter) RemoveClient(clientID string) {
	ml.mu.Lock()
	defer ml.mu.Unlock()
	delete(ml.limits, clientID)
}
