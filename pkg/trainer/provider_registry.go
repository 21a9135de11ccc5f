package trainer

import (
	"fmt"
	"strings"

	"github.com/callsimlabs/callsim/pkg/recog"
	"github.com/callsimlabs/callsim/pkg/synth"
)

type CaptureFactory func(cfg Config, streamID string) (recog.CaptureSource, error)
type SynthFactory func(cfg Config) (synth.Synthesizer, error)

type ProviderRegistry struct {
	capture map[string]CaptureFactory
	synth   map[string]SynthFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		capture: make(map[string]CaptureFactory),
		synth:   make(map[string]SynthFactory),
	}
}

func (r *ProviderRegistry) RegisterCapture(name string, factory CaptureFactory) {
	r.capture[strings.ToLower(strings.TrimSpace(name))] = factory
}

func (r *ProviderRegistry) RegisterSynth(name string, factory SynthFactory) {
	r.synth[strings.ToLower(strings.TrimSpace(name))] = factory
}

// BuildCapture builds the configured capture source. An empty provider name
// means the platform has no recognizer; callers get (nil, nil) and treat the
// capability as absent.
func (r *ProviderRegistry) BuildCapture(provider string, cfg Config, streamID string) (recog.CaptureSource, error) {
	name := strings.ToLower(strings.TrimSpace(provider))
	if name == "" {
		return nil, nil
	}
	fn := r.capture[name]
	if fn == nil {
		return nil, fmt.Errorf("capture provider not registered: %s", provider)
	}
	return fn(cfg, streamID)
}

func (r *ProviderRegistry) BuildSynth(provider string, cfg Config) (synth.Synthesizer, error) {
	fn := r.synth[strings.ToLower(strings.TrimSpace(provider))]
	if fn == nil {
		return nil, fmt.Errorf("synth provider not registered: %s", provider)
	}
	return fn(cfg)
}
