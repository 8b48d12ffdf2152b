package handler

import "math/rand/v2"

// 昵称词库
var (
	adjectives = []string{
		"勇敢的", "聪明的", "快乐的", "神秘的", "酷炫的",
		"优雅的", "可爱的", "威武的", "沉稳的", "活泼的",
		"机智的", "潇洒的", "温柔的", "霸气的", "淡定的",
	}

	nouns = []string{
		"公牛", "水牛", "牦牛", "奶牛", "野牛",
		"斗牛", "犀牛", "羚羊", "骆驼", "斑马",
	}
)

// GenerateNickname 生成随机昵称（注册时未填写昵称）
func GenerateNickname() string {
	return adjectives[rand.IntN(len(adjectives))] + nouns[rand.IntN(len(nouns))]
}
