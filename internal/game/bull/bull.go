// Package bull 牛头标记：公共池和玩家之间的流转
package bull

import (
	"github.com/palemoky/take-eleven/internal/apperrors"
)

// TriggerSize 收走的牌堆达到该张数时获得一个牛头
const TriggerSize = 3

// Holder 持有牛头的玩家
type Holder interface {
	AddBull(delta int)
}

// Pool 本局尚未被领取的牛头
type Pool struct {
	size int
	free int
}

// NewPool 创建一个容量为 size 的池，每局开始时调用 Reset 装满
func NewPool(size int) *Pool {
	return &Pool{size: size}
}

// Reset 装满公共池
func (p *Pool) Reset() {
	p.free = p.size
}

// Free 剩余数量
func (p *Pool) Free() int {
	return p.free
}

// Dry 公共池已空，此后只能从其他玩家处抢
func (p *Pool) Dry() bool {
	return p.free == 0
}

// Triggers 收走 pileLen 张牌是否触发牛头转移
func Triggers(pileLen int) bool {
	return pileLen >= TriggerSize
}

// MaxStacks 一回合最多可以操作的牌堆数
func MaxStacks(held int) int {
	return max(1, held)
}

// MaxHeld 所有玩家中持有的最大值
func MaxHeld(holdings []int) int {
	m := 0
	for _, h := range holdings {
		m = max(m, h)
	}
	return m
}

// CheckSteal 公共池为空时抢夺是否合法
// 目标必须有牛头，并且双方至少一方持有当前最大值
func CheckSteal(actorHeld, targetHeld, maxHeld int) error {
	if targetHeld == 0 {
		return apperrors.ErrTargetHasNoTokens
	}
	if actorHeld != maxHeld && targetHeld != maxHeld {
		return apperrors.ErrNeitherAtMaxBull
	}
	return nil
}

// Award 给 taker 一个牛头：池中有剩余时从池中取，否则从 target 处抢
// 返回是否发生了抢夺，调用方需先用 CheckSteal 校验
func (p *Pool) Award(taker, target Holder) (stolen bool) {
	if p.free > 0 {
		p.free--
	} else {
		target.AddBull(-1)
		stolen = true
	}
	taker.AddBull(1)
	return stolen
}
