// Package session 唯一的一局游戏：大厅、发牌、回合和结算
package session

import (
	"math/rand/v2"
	"time"

	"github.com/palemoky/take-eleven/internal/apperrors"
	"github.com/palemoky/take-eleven/internal/game/bull"
	"github.com/palemoky/take-eleven/internal/game/card"
	"github.com/palemoky/take-eleven/internal/game/pile"
	"github.com/palemoky/take-eleven/internal/game/room"
	"github.com/palemoky/take-eleven/internal/game/rule"
)

// Config 游戏参数
type Config struct {
	MinPlayers int
	MaxPlayers int
	HandSize   int
	FreeBull   int
}

// DefaultConfig 默认 2-7 人、每人 10 张、10 个牛头
func DefaultConfig() Config {
	return Config{MinPlayers: 2, MaxPlayers: 7, HandSize: 10, FreeBull: 10}
}

// GameSession 整个进程只有一个实例
// 不加锁：调用方必须串行调用所有方法
type GameSession struct {
	room  *room.Room
	deck  *card.Deck
	table *pile.Table
	pool  *bull.Pool

	handSize  int
	round     int
	turn      int
	startedAt time.Time

	now func() time.Time
}

// NewGameSession 创建游戏会话，rng 为 nil 时使用全局随机源
func NewGameSession(cfg Config, rng *rand.Rand) *GameSession {
	return &GameSession{
		room:     room.New(cfg.MinPlayers, cfg.MaxPlayers),
		deck:     card.NewDeck(rng),
		table:    pile.NewTable(),
		pool:     bull.NewPool(cfg.FreeBull),
		handSize: cfg.HandSize,
		now:      time.Now,
	}
}

// Started 是否有一局正在进行
func (gs *GameSession) Started() bool { return gs.room.Started() }

// Round 已开始的局数
func (gs *GameSession) Round() int { return gs.round }

// Turn 当前出牌的座位号
func (gs *GameSession) Turn() int { return gs.turn }

// FreeBull 公共池剩余牛头
func (gs *GameSession) FreeBull() int { return gs.pool.Free() }

// PlayerCount 已注册玩家数
func (gs *GameSession) PlayerCount() int { return gs.room.Count() }

// CurrentPlayerID 当前应该出牌的玩家，未开始时为空
func (gs *GameSession) CurrentPlayerID() string {
	if !gs.Started() {
		return ""
	}
	return gs.room.PlayerOrder[gs.turn]
}

// Register 注册，返回座位号
func (gs *GameSession) Register(id, nickname string) (int, error) {
	return gs.room.Register(id, nickname)
}

// Login 查询已注册玩家的座位号和游戏状态
func (gs *GameSession) Login(id string) (no int, started bool, err error) {
	p, ok := gs.room.Get(id)
	if !ok {
		return 0, false, apperrors.ErrUserNotFound
	}
	return p.No, gs.Started(), nil
}

// SetReady 设置准备状态，所有人准备好时开局，返回是否开局
func (gs *GameSession) SetReady(id string, ready bool) (bool, error) {
	if err := gs.room.SetReady(id, ready); err != nil {
		return false, err
	}
	return gs.tryStart(), nil
}

// Logout 退出，剩下的人如果都已准备也会开局
func (gs *GameSession) Logout(id string) (bool, error) {
	if err := gs.room.Unregister(id); err != nil {
		return false, err
	}
	return gs.tryStart(), nil
}

// Fetch 返回玩家完整信息（含手牌副本）
func (gs *GameSession) Fetch(id string) (room.Player, error) {
	p, ok := gs.room.Get(id)
	if !ok {
		return room.Player{}, apperrors.ErrUserNotFound
	}
	out := *p
	out.Hand = card.Sorted(p.Hand)
	return out, nil
}

func (gs *GameSession) tryStart() bool {
	if !gs.room.CanStart() {
		return false
	}
	gs.start()
	return true
}

// start 开局：重置牌堆，每人发 handSize 张，开出第一堆
func (gs *GameSession) start() {
	gs.round++
	gs.turn = 0
	gs.startedAt = gs.now()
	gs.deck.Reset()
	gs.pool.Reset()

	for _, p := range gs.room.Ordered() {
		p.Hand = make([]card.Card, 0, gs.handSize)
		for range gs.handSize {
			c, ok := gs.deck.DrawOne()
			if !ok {
				break
			}
			p.Hand = append(p.Hand, c)
		}
		card.Sort(p.Hand)
		p.Bull = 0
	}

	gs.table.Seed(gs.deck)
	gs.room.State = room.RoomStatePlaying
}

// roundOver 有人出完手牌或者桌上的牌堆全部被收空
func (gs *GameSession) roundOver() bool {
	if gs.table.AllEmpty() {
		return true
	}
	for _, p := range gs.room.Players {
		if len(p.Hand) == 0 {
			return true
		}
	}
	return false
}

// finish 结算：手牌牛头分计入累计分，所有人取消准备
func (gs *GameSession) finish() *RoundResult {
	gs.room.State = room.RoomStateWaiting

	result := &RoundResult{
		Round:     gs.round,
		FreeBull:  gs.pool.Free(),
		Piles:     gs.table.Snapshot(),
		StartedAt: gs.startedAt,
		EndedAt:   gs.now(),
	}
	for _, p := range gs.room.Ordered() {
		p.Ready = false
		newHead := rule.ScoreOfHand(p.Hand)
		p.Head += newHead
		result.Players = append(result.Players, PlayerResult{
			ID:       p.ID,
			Nickname: p.Nickname,
			Head:     p.Head,
			NewHead:  newHead,
			Hand:     card.Sorted(p.Hand),
			Bull:     p.Bull,
		})
	}
	return result
}

// CardCount 牌堆、手牌和桌面上的总张数，开局后恒为 100
func (gs *GameSession) CardCount() int {
	n := gs.deck.Len() + gs.table.CardCount()
	for _, p := range gs.room.Players {
		n += len(p.Hand)
	}
	return n
}

// BullTotal 公共池与玩家持有的牛头总数
func (gs *GameSession) BullTotal() int {
	n := gs.pool.Free()
	for _, p := range gs.room.Players {
		n += p.Bull
	}
	return n
}
