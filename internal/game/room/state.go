package room

// RoomState 房间状态
type RoomState int

const (
	RoomStateWaiting RoomState = iota // 大厅：可以注册、准备、退出
	RoomStatePlaying                  // 一局进行中
)

func (s RoomState) String() string {
	switch s {
	case RoomStateWaiting:
		return "waiting"
	case RoomStatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}
