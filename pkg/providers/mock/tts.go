package mock

import (
	"context"
	"sync"

	"github.com/callsimlabs/callsim/pkg/audio"
	"github.com/callsimlabs/callsim/pkg/synth"
)

type TTSConfig struct {
	Err error
}

// Synthesizer returns a deterministic silent clip, or a configured error.
type Synthesizer struct {
	cfg   TTSConfig
	mu    sync.Mutex
	calls int
}

func NewTTS(cfg TTSConfig) *Synthesizer {
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Name() string { return "mock_tts" }

func (s *Synthesizer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Synthesizer) Synthesize(ctx context.Context, text, lang string) (*audio.Clip, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.cfg.Err != nil {
		return nil, s.cfg.Err
	}
	pcm := make([]byte, 320)
	return audio.NewClip(pcm, "audio/pcm"), nil
}

var _ synth.Synthesizer = (*Synthesizer)(nil)
