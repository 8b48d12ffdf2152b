//go:build !ci

// Package sound 客户端音效，目录下没有音频文件时静默
package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const sampleRate = beep.SampleRate(44100)

type SoundManager struct {
	dir     string
	buffers map[string]*beep.Buffer
	enabled bool
}

// NewSoundManager dir 为空时使用 assets/sounds
func NewSoundManager(dir string) *SoundManager {
	if dir == "" {
		dir = DefaultDir
	}
	return &SoundManager{
		dir:     dir,
		buffers: make(map[string]*beep.Buffer),
	}
}

// Init 加载音频文件，有文件时才初始化扬声器
func (sm *SoundManager) Init() error {
	files, err := os.ReadDir(sm.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sound directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".mp3" && ext != ".wav" {
			continue
		}
		// 单个文件损坏不影响其他音效
		_ = sm.load(filepath.Join(sm.dir, name), strings.TrimSuffix(name, filepath.Ext(name)), ext)
	}
	if len(sm.buffers) == 0 {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	sm.enabled = true
	return nil
}

func (sm *SoundManager) load(path, name, ext string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return err
	}
	defer func() { _ = streamer.Close() }()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		resampled = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{
		SampleRate:  sampleRate,
		NumChannels: 2,
		Precision:   4,
	})
	buffer.Append(resampled)

	sm.buffers[name] = buffer
	return nil
}

// Loaded 已加载的音效名称
func (sm *SoundManager) Loaded() []string {
	names := make([]string, 0, len(sm.buffers))
	for name := range sm.buffers {
		names = append(names, name)
	}
	return names
}

func (sm *SoundManager) Play(name string) {
	if !sm.enabled {
		return
	}
	buffer, ok := sm.buffers[name]
	if !ok {
		return
	}
	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

func (sm *SoundManager) Close() {
	sm.enabled = false
}
