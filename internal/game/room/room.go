package room

import (
	"slices"

	"github.com/palemoky/take-eleven/internal/apperrors"
	"github.com/palemoky/take-eleven/internal/game/card"
)

// Player 房间中的玩家
type Player struct {
	ID       string
	Nickname string
	No       int         // 座位号，同时决定出牌顺序
	Ready    bool        // 是否准备
	Head     int         // 累计牛头分
	Bull     int         // 本局持有的牛头标记
	Hand     []card.Card // 手牌（升序）
}

// AddBull 调整持有的牛头标记
func (p *Player) AddBull(delta int) {
	p.Bull += delta
}

// Room 唯一的游戏房间，调用方负责串行访问
type Room struct {
	State       RoomState          // 房间状态
	Players     map[string]*Player // 玩家列表
	PlayerOrder []string           // 玩家顺序（按座位）

	minPlayers int
	maxPlayers int
}

// New 创建房间
func New(minPlayers, maxPlayers int) *Room {
	return &Room{
		State:       RoomStateWaiting,
		Players:     make(map[string]*Player),
		PlayerOrder: make([]string, 0, maxPlayers),
		minPlayers:  minPlayers,
		maxPlayers:  maxPlayers,
	}
}

// Started 是否有一局正在进行
func (r *Room) Started() bool {
	return r.State == RoomStatePlaying
}

// Register 注册玩家，返回分配的座位号
func (r *Room) Register(id, nickname string) (int, error) {
	if _, exists := r.Players[id]; exists {
		return 0, apperrors.ErrUserExists
	}
	if r.Started() {
		return 0, apperrors.ErrRegisterGameStarted
	}
	if len(r.PlayerOrder) >= r.maxPlayers {
		return 0, apperrors.ErrRoomFull
	}

	p := &Player{
		ID:       id,
		Nickname: nickname,
		No:       len(r.PlayerOrder),
		Hand:     []card.Card{},
	}
	r.Players[id] = p
	r.PlayerOrder = append(r.PlayerOrder, id)
	return p.No, nil
}

// SetReady 设置准备状态
func (r *Room) SetReady(id string, ready bool) error {
	p, exists := r.Players[id]
	if !exists {
		return apperrors.ErrUserNotFound
	}
	if r.Started() {
		return apperrors.ErrReadyGameStarted
	}
	p.Ready = ready
	return nil
}

// Unregister 移除玩家，之后的座位号依次前移保持连续
func (r *Room) Unregister(id string) error {
	p, exists := r.Players[id]
	if !exists {
		return apperrors.ErrUserNotFound
	}
	if r.Started() {
		return apperrors.ErrLogoutGameStarted
	}

	delete(r.Players, id)
	r.PlayerOrder = slices.Delete(r.PlayerOrder, p.No, p.No+1)
	for i := p.No; i < len(r.PlayerOrder); i++ {
		r.Players[r.PlayerOrder[i]].No = i
	}
	return nil
}

// Get 按 ID 查找
func (r *Room) Get(id string) (*Player, bool) {
	p, ok := r.Players[id]
	return p, ok
}

// ByNo 按座位号查找
func (r *Room) ByNo(no int) (*Player, bool) {
	if no < 0 || no >= len(r.PlayerOrder) {
		return nil, false
	}
	return r.Players[r.PlayerOrder[no]], true
}

// Count 玩家数量
func (r *Room) Count() int {
	return len(r.PlayerOrder)
}

// IsFull 是否已满
func (r *Room) IsFull() bool {
	return len(r.PlayerOrder) >= r.maxPlayers
}

// Ordered 按座位顺序返回所有玩家
func (r *Room) Ordered() []*Player {
	out := make([]*Player, len(r.PlayerOrder))
	for i, id := range r.PlayerOrder {
		out[i] = r.Players[id]
	}
	return out
}

// checkAllReady 人数足够且全部准备
func (r *Room) checkAllReady() bool {
	if len(r.PlayerOrder) < r.minPlayers {
		return false
	}
	for _, p := range r.Players {
		if !p.Ready {
			return false
		}
	}
	return true
}

// CanStart 大厅中人数足够且全部准备
func (r *Room) CanStart() bool {
	return !r.Started() && r.checkAllReady()
}

// Holdings 按座位顺序返回每个玩家的牛头数
func (r *Room) Holdings() []int {
	out := make([]int, len(r.PlayerOrder))
	for i, id := range r.PlayerOrder {
		out[i] = r.Players[id].Bull
	}
	return out
}
