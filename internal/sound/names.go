package sound

// DefaultDir 默认的音效目录
const DefaultDir = "assets/sounds"

// 音效名称即文件名（不含扩展名）
const (
	MyTurn    = "turn"
	GotBull   = "bull"
	LostBull  = "steal"
	RoundOver = "end"
)
