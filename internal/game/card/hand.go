package card

import "slices"

// Sort 升序排列（原地）
func Sort(cards []Card) {
	slices.Sort(cards)
}

// Sorted 返回升序副本
func Sorted(cards []Card) []Card {
	out := slices.Clone(cards)
	slices.Sort(out)
	return out
}

// ContainsAll 检查 cards 是否都在手牌中（按张数计，重复的牌需要手里有同样多张）
func ContainsAll(hand, cards []Card) bool {
	handCopy := slices.Clone(hand)
	for _, c := range cards {
		idx := slices.Index(handCopy, c)
		if idx < 0 {
			return false
		}
		handCopy = slices.Delete(handCopy, idx, idx+1)
	}
	return true
}

// RemoveCards 从手牌中移除指定的牌，返回新的手牌
func RemoveCards(hand, cards []Card) []Card {
	result := slices.Clone(hand)
	for _, c := range cards {
		if idx := slices.Index(result, c); idx >= 0 {
			result = slices.Delete(result, idx, idx+1)
		}
	}
	return result
}

// Merge 合并两组牌并保持升序
func Merge(hand, cards []Card) []Card {
	result := make([]Card, 0, len(hand)+len(cards))
	result = append(result, hand...)
	result = append(result, cards...)
	slices.Sort(result)
	return result
}

// ToInts 转换为 int 切片（用于协议输出）
func ToInts(cards []Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = int(c)
	}
	return out
}

// FromInts 由 int 切片构造
func FromInts(values []int) []Card {
	out := make([]Card, len(values))
	for i, v := range values {
		out[i] = Card(v)
	}
	return out
}
