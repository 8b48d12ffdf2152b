package card

import (
	"math/rand/v2"
	"slices"
	"strconv"
)

// Card 定义一张牌，牌面即点数 1..100
type Card int

const (
	MinCard Card = 1
	MaxCard Card = 100

	// DeckSize 一副牌的张数
	DeckSize = int(MaxCard - MinCard + 1)
)

// Valid 牌面是否在合法范围内
func (c Card) Valid() bool {
	return c >= MinCard && c <= MaxCard
}

func (c Card) String() string {
	return strconv.Itoa(int(c))
}

// Deck 尚未发出的牌（无放回随机抽取）
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck 创建一副空牌堆，rng 为 nil 时使用全局随机源
func NewDeck(rng *rand.Rand) *Deck {
	return &Deck{
		cards: make([]Card, 0, DeckSize),
		rng:   rng,
	}
}

// Reset 重新装满 1..100
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for c := MinCard; c <= MaxCard; c++ {
		d.cards = append(d.cards, c)
	}
}

// DrawOne 随机抽出一张牌，牌堆为空时 ok 为 false
func (d *Deck) DrawOne() (c Card, ok bool) {
	n := len(d.cards)
	if n == 0 {
		return 0, false
	}

	idx := d.intN(n)
	c = d.cards[idx]
	d.cards[idx] = d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, true
}

// Len 剩余张数
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards 返回剩余牌的有序副本
func (d *Deck) Cards() []Card {
	out := slices.Clone(d.cards)
	slices.Sort(out)
	return out
}

func (d *Deck) intN(n int) int {
	if d.rng == nil {
		return rand.IntN(n)
	}
	return d.rng.IntN(n)
}
