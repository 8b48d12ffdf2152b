package apperrors

import (
	"errors"

	"github.com/palemoky/take-eleven/internal/protocol"
)

// GameError 游戏错误（注册表和会话共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func newError(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrUserNotFound = newError(protocol.ErrCodeUserNotFound)

	ErrUserExists          = newError(protocol.ErrCodeRegisterUserExists)
	ErrRegisterGameStarted = newError(protocol.ErrCodeRegisterGameStarted)
	ErrRoomFull            = newError(protocol.ErrCodeRegisterRoomFull)

	ErrReadyGameStarted  = newError(protocol.ErrCodeReadyGameStarted)
	ErrLogoutGameStarted = newError(protocol.ErrCodeLogoutGameStarted)

	ErrGameNotStarted    = newError(protocol.ErrCodeActGameNotStarted)
	ErrNotYourTurn       = newError(protocol.ErrCodeActNotYourTurn)
	ErrTooManyStacks     = newError(protocol.ErrCodeActTooManyStacks)
	ErrTooManyCards      = newError(protocol.ErrCodeActTooManyCards)
	ErrPileNotFound      = newError(protocol.ErrCodeActPileNotFound)
	ErrCardNotInHand     = newError(protocol.ErrCodeActCardNotInHand)
	ErrCardNotPushable   = newError(protocol.ErrCodeActCardNotPush)
	ErrMixPickAndPush    = newError(protocol.ErrCodeActMixPickPush)
	ErrTargetNotFound    = newError(protocol.ErrCodeActTargetNotFound)
	ErrTargetHasNoTokens = newError(protocol.ErrCodeActTargetNoBull)
	ErrNeitherAtMaxBull  = newError(protocol.ErrCodeActNeitherMaxBull)
)

// Code 提取错误码，非 GameError 返回 ErrCodeUnknown
func Code(err error) int {
	var gameErr *GameError
	if errors.As(err, &gameErr) {
		return gameErr.Code
	}
	return protocol.ErrCodeUnknown
}
