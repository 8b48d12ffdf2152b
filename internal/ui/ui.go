// Package ui provides the main entry point for the UI.
package ui

import (
	"go.uber.org/zap"

	"github.com/palemoky/take-eleven/internal/client"
	"github.com/palemoky/take-eleven/internal/protocol/codec"
	"github.com/palemoky/take-eleven/internal/sound"
	"github.com/palemoky/take-eleven/internal/ui/handler"
	"github.com/palemoky/take-eleven/internal/ui/input"
	"github.com/palemoky/take-eleven/internal/ui/model"
	"github.com/palemoky/take-eleven/internal/ui/view"
)

// NewOnlineModel creates the terminal client model with its view, key and message handlers wired in.
// Sounds are loaded from soundDir, an empty or missing directory mutes the client.
func NewOnlineModel(serverURL string, wire codec.Wire, playerID, soundDir string, log *zap.Logger) *model.OnlineModel {
	if log == nil {
		log = zap.NewNop()
	}
	c := client.NewClient(serverURL, wire, playerID, log)

	m := model.NewOnlineModel(c)
	sm := sound.NewSoundManager(soundDir)
	if err := sm.Init(); err != nil {
		log.Warn("音效初始化失败", zap.Error(err))
	} else {
		m.SetSoundPlayer(sm)
	}
	m.SetViewRenderer(view.CreateViewRenderer())
	m.SetKeyHandler(input.HandleKeyPress)
	m.SetServerMessageHandler(handler.HandleServerMessage)
	return m
}
