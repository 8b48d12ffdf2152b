//go:build !production

package pile

import (
	"slices"

	"github.com/palemoky/take-eleven/internal/game/card"
)

// TableOf 用给定的牌堆构造牌桌（测试用）
func TableOf(piles ...[]card.Card) *Table {
	t := &Table{piles: make([][]card.Card, len(piles))}
	for i, p := range piles {
		t.piles[i] = slices.Clone(p)
		if t.piles[i] == nil {
			t.piles[i] = []card.Card{}
		}
	}
	return t
}
