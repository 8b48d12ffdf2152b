package protocol

// 错误码（0-40 与游戏状态码保持一致，1000 以上为传输层）
const (
	ErrCodeUserNotFound = 0

	ErrCodeRegisterUserExists  = 1
	ErrCodeRegisterGameStarted = 2
	ErrCodeRegisterRoomFull    = 3

	ErrCodeReadyGameStarted = 10

	ErrCodeActGameNotStarted = 20
	ErrCodeActNotYourTurn    = 21
	ErrCodeActTooManyStacks  = 22
	ErrCodeActTooManyCards   = 23
	ErrCodeActPileNotFound   = 24
	ErrCodeActCardNotInHand  = 25
	ErrCodeActCardNotPush    = 26
	ErrCodeActMixPickPush    = 27
	ErrCodeActTargetNotFound = 28
	ErrCodeActTargetNoBull   = 29
	ErrCodeActNeitherMaxBull = 30

	ErrCodeLogoutGameStarted = 40

	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeRateLimit         = 1002 // 速率限制
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUserNotFound:        "用户不存在",
	ErrCodeRegisterUserExists:  "用户已存在",
	ErrCodeRegisterGameStarted: "游戏已开始，无法注册",
	ErrCodeRegisterRoomFull:    "房间已满",
	ErrCodeReadyGameStarted:    "游戏已开始",
	ErrCodeActGameNotStarted:   "游戏尚未开始",
	ErrCodeActNotYourTurn:      "还没轮到您",
	ErrCodeActTooManyStacks:    "操作的牌堆数超过上限",
	ErrCodeActTooManyCards:     "单个牌堆不能放多张牌",
	ErrCodeActPileNotFound:     "牌堆不存在",
	ErrCodeActCardNotInHand:    "手牌中没有这张牌",
	ErrCodeActCardNotPush:      "这张牌不能放到该牌堆",
	ErrCodeActMixPickPush:      "收牌不能与其他操作同时进行",
	ErrCodeActTargetNotFound:   "目标玩家不存在",
	ErrCodeActTargetNoBull:     "目标玩家没有牛头",
	ErrCodeActNeitherMaxBull:   "双方都不是牛头最多的玩家",
	ErrCodeLogoutGameStarted:   "游戏已开始，无法退出",
	ErrCodeUnknown:             "未知错误",
	ErrCodeInvalidMsg:          "无效的消息格式",
	ErrCodeRateLimit:           "请求过于频繁",
	ErrCodeServerMaintenance:   "服务器维护中",
}
