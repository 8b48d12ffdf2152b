// Package session 记录连接和玩家之间的对应关系
package session

import (
	"sync"
	"time"
)

// PlayerSession 玩家会话
type PlayerSession struct {
	PlayerID string
	ConnID   string // 当前绑定的连接，离线时为空

	DisconnectedAt time.Time // 断线时间
	IsOnline       bool      // 是否在线
}

// SessionManager 会话管理器
// 同一个玩家只绑定最后一次登录的连接
type SessionManager struct {
	sessions map[string]*PlayerSession // playerID -> session
	conns    map[string]string         // connID -> playerID
	mu       sync.RWMutex

	now func() time.Time
}

// NewSessionManager 创建会话管理器
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*PlayerSession),
		conns:    make(map[string]string),
		now:      time.Now,
	}
}

// Bind 把连接绑定到玩家，返回被顶替的旧连接 ID
func (sm *SessionManager) Bind(connID, playerID string) (prevConnID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	// 一个连接只代表一个玩家
	if old, ok := sm.conns[connID]; ok && old != playerID {
		if s, ok := sm.sessions[old]; ok && s.ConnID == connID {
			sm.markOffline(s)
		}
	}

	s, ok := sm.sessions[playerID]
	if !ok {
		s = &PlayerSession{PlayerID: playerID}
		sm.sessions[playerID] = s
	}
	if s.ConnID != "" && s.ConnID != connID {
		prevConnID = s.ConnID
		delete(sm.conns, prevConnID)
	}

	s.ConnID = connID
	s.IsOnline = true
	s.DisconnectedAt = time.Time{}
	sm.conns[connID] = playerID
	return prevConnID
}

// Unbind 连接断开，返回它绑定的玩家
func (sm *SessionManager) Unbind(connID string) (playerID string, ok bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	playerID, ok = sm.conns[connID]
	if !ok {
		return "", false
	}
	delete(sm.conns, connID)

	if s, exists := sm.sessions[playerID]; exists && s.ConnID == connID {
		sm.markOffline(s)
	}
	return playerID, true
}

func (sm *SessionManager) markOffline(s *PlayerSession) {
	delete(sm.conns, s.ConnID)
	s.ConnID = ""
	s.IsOnline = false
	s.DisconnectedAt = sm.now()
}

// PlayerOf 连接绑定的玩家
func (sm *SessionManager) PlayerOf(connID string) (string, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	id, ok := sm.conns[connID]
	return id, ok
}

// GetSession 获取会话副本
func (sm *SessionManager) GetSession(playerID string) (PlayerSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[playerID]
	if !ok {
		return PlayerSession{}, false
	}
	return *s, true
}

// IsOnline 检查玩家是否在线
func (sm *SessionManager) IsOnline(playerID string) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[playerID]
	return ok && s.IsOnline
}

// OfflineSince 玩家离线超过 d 时返回 true
func (sm *SessionManager) OfflineSince(playerID string, d time.Duration) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.sessions[playerID]
	if !ok || s.IsOnline {
		return false
	}
	return sm.now().Sub(s.DisconnectedAt) >= d
}

// DeleteSession 删除会话
func (sm *SessionManager) DeleteSession(playerID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s, ok := sm.sessions[playerID]; ok {
		if s.ConnID != "" {
			delete(sm.conns, s.ConnID)
		}
		delete(sm.sessions, playerID)
	}
}

// OnlineCount 在线玩家数
func (sm *SessionManager) OnlineCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	n := 0
	for _, s := range sm.sessions {
		if s.IsOnline {
			n++
		}
	}
	return n
}
