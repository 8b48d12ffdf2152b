package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// RegisterPayload 注册请求
type RegisterPayload struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

// IdentityPayload 只携带玩家 ID 的请求（login / logout / fetch）
type IdentityPayload struct {
	ID string `json:"id"`
}

// ReadyPayload 准备请求
type ReadyPayload struct {
	ID    string `json:"id"`
	State bool   `json:"state"`
}

// StackInfo 一次操作中的一个牌堆动作，cards 为空表示收走整堆
type StackInfo struct {
	PileNo int   `json:"pile_no"`
	Cards  []int `json:"cards"`
}

// ActionPayload 出牌请求
type ActionPayload struct {
	ID       string      `json:"id"`
	Stacks   []StackInfo `json:"stacks"`
	TargetNo *int        `json:"target_no,omitempty"` // 牛头池为空时收牌需要指定
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Offset int `json:"offset"` // 偏移量
	Limit  int `json:"limit"`  // 数量
}

// GetHistoryPayload 获取历史请求
type GetHistoryPayload struct {
	Limit int `json:"limit"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	State        int    `json:"state"`
	ConnectionID string `json:"connection_id"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// OnlineCountPayload 在线人数更新
type OnlineCountPayload struct {
	Count int `json:"count"` // 当前在线人数
}

// RegisteredPayload 注册成功
type RegisteredPayload struct {
	State int `json:"state"`
	No    int `json:"no"` // 座位号
}

// LoggedInPayload 登录成功
type LoggedInPayload struct {
	State   int  `json:"state"`
	No      int  `json:"no"`
	Started bool `json:"started"`
}

// LoggedOutPayload 退出成功
type LoggedOutPayload struct {
	State int `json:"state"`
}

// FetchedPayload 玩家完整信息
type FetchedPayload struct {
	State  int          `json:"state"`
	Player PlayerRecord `json:"player"`
}

// BasicStatusPayload 大厅状态广播
type BasicStatusPayload struct {
	State   int          `json:"state"`
	Started bool         `json:"started"`
	Players []PlayerInfo `json:"players"`
}

// DetailStatusPayload 牌桌状态广播，action 成功后附带 diff
type DetailStatusPayload struct {
	State    int          `json:"state"`
	Started  bool         `json:"started"`
	Players  []PlayerInfo `json:"players"`
	Piles    []PileInfo   `json:"piles"`
	FreeBull int          `json:"free_bull"`
	Round    int          `json:"round"`
	Turn     int          `json:"turn"`
	Diff     *DiffInfo    `json:"diff,omitempty"`
}

// GameEndPayload 本局结束广播
type GameEndPayload struct {
	State    int            `json:"state"`
	Started  bool           `json:"started"`
	FreeBull int            `json:"free_bull"`
	Round    int            `json:"round"`
	Players  []PlayerResult `json:"players"`
	Piles    [][]int        `json:"piles"`
}

// MaintenancePayload 维护模式通知
type MaintenancePayload struct {
	Maintenance bool `json:"maintenance"` // 是否在维护模式
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LeaderboardResultPayload 排行榜结果（牛头少者在前）
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
	MyRank  int64              `json:"my_rank,omitempty"` // 请求者的排名，未上榜时为 0
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
	Head     int    `json:"head"`
	Rounds   int    `json:"rounds"`
}

// HistoryResultPayload 最近几局结果
type HistoryResultPayload struct {
	Rounds []RoundRecord `json:"rounds"`
}

// RoundRecord 一局的结算记录
type RoundRecord struct {
	Round    int            `json:"round"`
	EndedAt  int64          `json:"ended_at"` // Unix 秒
	Players  []PlayerResult `json:"players"`
	Duration int64          `json:"duration"` // 秒
}

// --- 通用数据结构 ---

// PlayerInfo 公开的玩家信息
type PlayerInfo struct {
	Nickname string `json:"nickname"`
	Ready    bool   `json:"ready"`
	HandNum  int    `json:"hand_num"`
	Bull     int    `json:"bull"`
	Head     int    `json:"head"`
}

// PlayerRecord 玩家完整信息（含手牌，仅发给本人）
type PlayerRecord struct {
	Nickname string `json:"nickname"`
	No       int    `json:"no"`
	Ready    bool   `json:"ready"`
	Head     int    `json:"head"`
	Bull     int    `json:"bull"`
	Hand     []int  `json:"hand"`
}

// PlayerResult 结算时的玩家信息
type PlayerResult struct {
	Nickname string `json:"nickname"`
	Head     int    `json:"head"`
	NewHead  int    `json:"new_head"`
	Hand     []int  `json:"hand"`
	Bull     int    `json:"bull"`
	Ready    bool   `json:"ready"`
}

// PileInfo 牌堆概要，空堆 top 为 null
type PileInfo struct {
	Top *int `json:"top"`
	Num int  `json:"num"`
}

// PileInc 某个牌堆增加的张数
type PileInc struct {
	No  int `json:"no"`
	Num int `json:"num"`
}

// DiffInfo 一次操作带来的变化
type DiffInfo struct {
	PlayerNo  int       `json:"player_no"`
	PilesInc  []PileInc `json:"piles_inc"`
	PileDecNo int       `json:"pile_dec_no"` // 没有收牌时为 -1
	TargetNo  *int      `json:"target_no,omitempty"`
	BullDiff  int       `json:"bull_diff"`
}
