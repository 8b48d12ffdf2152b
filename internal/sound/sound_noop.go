//go:build ci

package sound

type SoundManager struct{}

func NewSoundManager(string) *SoundManager {
	return &SoundManager{}
}

func (sm *SoundManager) Init() error { return nil }

func (sm *SoundManager) Loaded() []string { return nil }

func (sm *SoundManager) Play(string) {}

func (sm *SoundManager) Close() {}
