package gateway

import (
	"context"

	"github.com/callsimlabs/callsim/pkg/audio"
	"github.com/callsimlabs/callsim/pkg/client"
	"github.com/callsimlabs/callsim/pkg/synth"
)

// Synthesizer renders speech server-side through the CallSim gateway's TTS
// endpoint. It is the preferred strategy; a local synthesizer covers for it
// when the gateway cannot deliver.
type Synthesizer struct {
	client *client.Client
}

func NewSynthesizer(c *client.Client) *Synthesizer {
	return &Synthesizer{client: c}
}

func (s *Synthesizer) Name() string { return "gateway_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, text, lang string) (*audio.Clip, error) {
	return s.client.Synthesize(ctx, text, lang)
}

var _ synth.Synthesizer = (*Synthesizer)(nil)
