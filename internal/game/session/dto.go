package session

import (
	"time"

	"github.com/palemoky/take-eleven/internal/game/card"
	"github.com/palemoky/take-eleven/internal/game/room"
	"github.com/palemoky/take-eleven/internal/protocol"
)

// PlayerResult 结算时的玩家信息
type PlayerResult struct {
	ID       string
	Nickname string
	Head     int // 结算后的累计分
	NewHead  int // 本局新增
	Hand     []card.Card
	Bull     int
}

// RoundResult 一局的结算
type RoundResult struct {
	Round     int
	FreeBull  int
	Players   []PlayerResult
	Piles     [][]card.Card
	StartedAt time.Time
	EndedAt   time.Time
}

// Duration 本局用时
func (r *RoundResult) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// PlayerResults 转换为协议结构
func (r *RoundResult) PlayerResults() []protocol.PlayerResult {
	out := make([]protocol.PlayerResult, len(r.Players))
	for i, p := range r.Players {
		out[i] = protocol.PlayerResult{
			Nickname: p.Nickname,
			Head:     p.Head,
			NewHead:  p.NewHead,
			Hand:     card.ToInts(p.Hand),
			Bull:     p.Bull,
			Ready:    false,
		}
	}
	return out
}

// Payload 本局结束广播
func (r *RoundResult) Payload() protocol.GameEndPayload {
	piles := make([][]int, len(r.Piles))
	for i, p := range r.Piles {
		piles[i] = card.ToInts(p)
	}
	return protocol.GameEndPayload{
		State:    protocol.StateBroadcastGameEnd,
		Started:  false,
		FreeBull: r.FreeBull,
		Round:    r.Round,
		Players:  r.PlayerResults(),
		Piles:    piles,
	}
}

// Record 用于保存历史的记录
func (r *RoundResult) Record() protocol.RoundRecord {
	return protocol.RoundRecord{
		Round:    r.Round,
		EndedAt:  r.EndedAt.Unix(),
		Players:  r.PlayerResults(),
		Duration: int64(r.Duration().Seconds()),
	}
}

// ToProto 转换为协议结构
func (d Diff) ToProto() *protocol.DiffInfo {
	inc := make([]protocol.PileInc, len(d.PilesInc))
	for i, p := range d.PilesInc {
		inc[i] = protocol.PileInc{No: p.No, Num: p.Num}
	}
	return &protocol.DiffInfo{
		PlayerNo:  d.PlayerNo,
		PilesInc:  inc,
		PileDecNo: d.PileDecNo,
		TargetNo:  d.TargetNo,
		BullDiff:  d.BullDiff,
	}
}

// ToPlayerRecord 玩家完整信息
func ToPlayerRecord(p room.Player) protocol.PlayerRecord {
	return protocol.PlayerRecord{
		Nickname: p.Nickname,
		No:       p.No,
		Ready:    p.Ready,
		Head:     p.Head,
		Bull:     p.Bull,
		Hand:     card.ToInts(p.Hand),
	}
}

func (gs *GameSession) playerInfos() []protocol.PlayerInfo {
	players := gs.room.Ordered()
	out := make([]protocol.PlayerInfo, len(players))
	for i, p := range players {
		out[i] = protocol.PlayerInfo{
			Nickname: p.Nickname,
			Ready:    p.Ready,
			HandNum:  len(p.Hand),
			Bull:     p.Bull,
			Head:     p.Head,
		}
	}
	return out
}

// BasicStatus 大厅状态
func (gs *GameSession) BasicStatus() protocol.BasicStatusPayload {
	return protocol.BasicStatusPayload{
		State:   protocol.StateBroadcastGameBasic,
		Started: gs.Started(),
		Players: gs.playerInfos(),
	}
}

// DetailStatus 牌桌状态，state 为 GAME_START 或 GAME_STATUS，diff 可为空
func (gs *GameSession) DetailStatus(state int, diff *Diff) protocol.DetailStatusPayload {
	piles := make([]protocol.PileInfo, gs.table.Len())
	for i := range piles {
		piles[i].Num = gs.table.Size(i)
		if top, ok := gs.table.Top(i); ok {
			v := int(top)
			piles[i].Top = &v
		}
	}

	payload := protocol.DetailStatusPayload{
		State:    state,
		Started:  gs.Started(),
		Players:  gs.playerInfos(),
		Piles:    piles,
		FreeBull: gs.pool.Free(),
		Round:    gs.round,
		Turn:     gs.turn,
	}
	if diff != nil {
		payload.Diff = diff.ToProto()
	}
	return payload
}
