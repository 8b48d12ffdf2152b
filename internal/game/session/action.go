package session

import (
	"github.com/palemoky/take-eleven/internal/apperrors"
	"github.com/palemoky/take-eleven/internal/game/bull"
	"github.com/palemoky/take-eleven/internal/game/card"
	"github.com/palemoky/take-eleven/internal/game/pile"
	"github.com/palemoky/take-eleven/internal/game/room"
	"github.com/palemoky/take-eleven/internal/protocol"
)

// Stack 一次操作中的一个牌堆动作，Cards 为空表示收走整堆
type Stack struct {
	PileNo int
	Cards  []card.Card
}

// IsPick 是否收牌
func (s Stack) IsPick() bool {
	return len(s.Cards) == 0
}

// ActionRequest 一个回合的操作
type ActionRequest struct {
	Stacks   []Stack
	TargetNo *int // 公共池为空时收牌需要指定被抢的玩家
}

// PileInc 某个牌堆增加的张数
type PileInc struct {
	No  int
	Num int
}

// Diff 一次操作带来的变化
type Diff struct {
	PlayerNo  int
	PilesInc  []PileInc
	PileDecNo int  // 没有收牌时为 -1
	TargetNo  *int // 只有发生抢夺时才有
	BullDiff  int
}

// ActionOutcome 操作结果，本局结束时 Result 不为空
// Status 是结算之前的牌桌状态（含 diff）
type ActionOutcome struct {
	Diff   Diff
	Status protocol.DetailStatusPayload
	Result *RoundResult
}

// Finished 本局是否因为这次操作而结束
func (o *ActionOutcome) Finished() bool {
	return o.Result != nil
}

// Action 校验并执行一个回合的操作
// 任何一项校验失败都不会修改状态
func (gs *GameSession) Action(id string, req ActionRequest) (*ActionOutcome, error) {
	player, err := gs.validate(id, req)
	if err != nil {
		return nil, err
	}

	diff := gs.execute(player, req)
	gs.turn = (gs.turn + 1) % gs.room.Count()

	outcome := &ActionOutcome{
		Diff:   diff,
		Status: gs.DetailStatus(protocol.StateBroadcastGameStatus, &diff),
	}
	if gs.roundOver() {
		outcome.Result = gs.finish()
	}
	return outcome, nil
}

func (gs *GameSession) validate(id string, req ActionRequest) (*room.Player, error) {
	player, ok := gs.room.Get(id)
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	if !gs.Started() {
		return nil, apperrors.ErrGameNotStarted
	}
	if gs.room.PlayerOrder[gs.turn] != id {
		return nil, apperrors.ErrNotYourTurn
	}
	if len(req.Stacks) > bull.MaxStacks(player.Bull) {
		return nil, apperrors.ErrTooManyStacks
	}

	// 同一次操作中的多张牌依次生效：手牌逐张扣除，堆顶随之变化
	remaining := player.Hand
	tops := make(map[int]card.Card)

	for _, stack := range req.Stacks {
		if !gs.table.Exists(stack.PileNo) {
			return nil, apperrors.ErrPileNotFound
		}
		if len(stack.Cards) > 1 && player.Bull == 0 {
			return nil, apperrors.ErrTooManyCards
		}
		if !card.ContainsAll(remaining, stack.Cards) {
			return nil, apperrors.ErrCardNotInHand
		}
		remaining = card.RemoveCards(remaining, stack.Cards)

		if !stack.IsPick() {
			top, ok := tops[stack.PileNo]
			if !ok {
				top, ok = gs.table.Top(stack.PileNo)
			}
			for _, c := range card.Sorted(stack.Cards) {
				if !ok || !pile.CanPushOnTop(top, c) {
					return nil, apperrors.ErrCardNotPushable
				}
				top = c
			}
			tops[stack.PileNo] = top
			continue
		}

		if len(req.Stacks) > 1 {
			return nil, apperrors.ErrMixPickAndPush
		}
		if bull.Triggers(gs.table.Size(stack.PileNo)) && gs.pool.Dry() {
			if err := gs.validateSteal(player, req.TargetNo); err != nil {
				return nil, err
			}
		}
	}
	return player, nil
}

func (gs *GameSession) validateSteal(player *room.Player, targetNo *int) error {
	if targetNo == nil {
		return apperrors.ErrTargetNotFound
	}
	target, ok := gs.room.ByNo(*targetNo)
	if !ok || target.ID == player.ID {
		return apperrors.ErrTargetNotFound
	}
	return bull.CheckSteal(player.Bull, target.Bull, bull.MaxHeld(gs.room.Holdings()))
}

func (gs *GameSession) execute(player *room.Player, req ActionRequest) Diff {
	diff := Diff{
		PlayerNo:  player.No,
		PilesInc:  []PileInc{},
		PileDecNo: -1,
	}

	for _, stack := range req.Stacks {
		if !stack.IsPick() {
			player.Hand = card.RemoveCards(player.Hand, stack.Cards)
			gs.table.Push(stack.PileNo, stack.Cards)
			diff.PilesInc = append(diff.PilesInc, PileInc{No: stack.PileNo, Num: len(stack.Cards)})
			continue
		}

		taken := gs.table.Take(stack.PileNo, gs.deck)
		player.Hand = card.Merge(player.Hand, taken)
		diff.PileDecNo = stack.PileNo

		if bull.Triggers(len(taken)) {
			var target bull.Holder
			if gs.pool.Dry() {
				target, _ = gs.room.ByNo(*req.TargetNo)
			}
			if gs.pool.Award(player, target) {
				no := *req.TargetNo
				diff.TargetNo = &no
			}
			diff.BullDiff++
		}
	}
	return diff
}
