package rule

import "github.com/palemoky/take-eleven/internal/game/card"

// 牛头分值
const (
	HeadsThirty = 7 // 末位为 3 且 (n-3) 可被 30 整除：3, 33, 63, 93
	HeadsTen    = 5 // 末位为 3 的其他牌
	HeadsPrime  = 3 // 质数
	HeadsPlain  = 1 // 其余
)

// primes 1..100 之间的质数
var primes = map[card.Card]bool{
	2: true, 3: true, 5: true, 7: true, 11: true, 13: true, 17: true, 19: true,
	23: true, 29: true, 31: true, 37: true, 41: true, 43: true, 47: true,
	53: true, 59: true, 61: true, 67: true, 71: true, 73: true, 79: true,
	83: true, 89: true, 97: true,
}

// ScoreOf 返回一张牌的牛头分，规则按优先级依次判断
func ScoreOf(c card.Card) int {
	switch {
	case (c-3)%30 == 0:
		return HeadsThirty
	case (c-3)%10 == 0:
		return HeadsTen
	case primes[c]:
		return HeadsPrime
	default:
		return HeadsPlain
	}
}

// ScoreOfHand 手牌牛头分之和
func ScoreOfHand(hand []card.Card) int {
	sum := 0
	for _, c := range hand {
		sum += ScoreOf(c)
	}
	return sum
}
