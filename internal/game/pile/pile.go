// Package pile 牌桌上的牌堆
package pile

import (
	"slices"

	"github.com/palemoky/take-eleven/internal/game/card"
)

const (
	// Gap 普通情况下可以接在牌堆顶之后的最大差值
	Gap = 10
	// wrapFrom 堆顶超过该值时可以绕回 1 继续接
	wrapFrom = card.MaxCard - Gap

	// ReplenishCount 收走一堆后补充的新堆数量
	ReplenishCount = 2
)

// CanPushOnTop 判断 c 能否接在堆顶 top 之后
// top ≤ 90 时要求 top < c ≤ top+10；top > 90 时 c > top 或 c ≤ top-90（环绕）
func CanPushOnTop(top, c card.Card) bool {
	if top <= wrapFrom {
		return top < c && c <= top+Gap
	}
	return c > top || c <= top-wrapFrom
}

// CanPushCard 空堆不能放牌
func CanPushCard(pile []card.Card, c card.Card) bool {
	if len(pile) == 0 {
		return false
	}
	return CanPushOnTop(pile[len(pile)-1], c)
}

// Table 牌堆列表，下标即牌堆编号，一局之内不会变化
type Table struct {
	piles [][]card.Card
}

// NewTable 创建空牌桌
func NewTable() *Table {
	return &Table{}
}

// Seed 清空牌桌并从牌堆抽一张开出第一堆
func (t *Table) Seed(deck *card.Deck) {
	t.piles = t.piles[:0]
	if c, ok := deck.DrawOne(); ok {
		t.piles = append(t.piles, []card.Card{c})
	}
}

// Len 牌堆数量（包含已被收空的位置）
func (t *Table) Len() int {
	return len(t.piles)
}

// Exists 编号是否存在
func (t *Table) Exists(no int) bool {
	return no >= 0 && no < len(t.piles)
}

// Get 返回牌堆副本
func (t *Table) Get(no int) ([]card.Card, bool) {
	if !t.Exists(no) {
		return nil, false
	}
	return slices.Clone(t.piles[no]), true
}

// Top 返回堆顶，空堆 ok 为 false
func (t *Table) Top(no int) (card.Card, bool) {
	if !t.Exists(no) || len(t.piles[no]) == 0 {
		return 0, false
	}
	p := t.piles[no]
	return p[len(p)-1], true
}

// Size 牌堆张数，不存在时为 0
func (t *Table) Size(no int) int {
	if !t.Exists(no) {
		return 0
	}
	return len(t.piles[no])
}

// Push 把牌按升序放到牌堆上，调用方保证每一张都可以接上
func (t *Table) Push(no int, cards []card.Card) {
	t.piles[no] = append(t.piles[no], card.Sorted(cards)...)
}

// Take 收走整堆，位置保留为空堆，然后从牌堆补充至多两堆新牌
func (t *Table) Take(no int, deck *card.Deck) []card.Card {
	taken := t.piles[no]
	t.piles[no] = []card.Card{}

	for range ReplenishCount {
		c, ok := deck.DrawOne()
		if !ok {
			break
		}
		t.piles = append(t.piles, []card.Card{c})
	}
	return taken
}

// AllEmpty 所有牌堆都为空（本局结束条件之一）
func (t *Table) AllEmpty() bool {
	for _, p := range t.piles {
		if len(p) > 0 {
			return false
		}
	}
	return true
}

// CardCount 牌桌上的总张数
func (t *Table) CardCount() int {
	n := 0
	for _, p := range t.piles {
		n += len(p)
	}
	return n
}

// Snapshot 返回所有牌堆的深拷贝
func (t *Table) Snapshot() [][]card.Card {
	out := make([][]card.Card, len(t.piles))
	for i, p := range t.piles {
		out[i] = slices.Clone(p)
	}
	return out
}
