//go:build !production

package session

import (
	"github.com/palemoky/take-eleven/internal/game/card"
	"github.com/palemoky/take-eleven/internal/game/pile"
)

// Arrange 把进行中的牌局替换为指定的手牌和牌堆，牌库清空（测试用）
func (gs *GameSession) Arrange(hands map[string][]card.Card, piles ...[]card.Card) {
	for id, h := range hands {
		gs.room.Players[id].Hand = card.Sorted(h)
	}
	gs.table = pile.TableOf(piles...)
	gs.deck = card.NewDeck(nil)
}
