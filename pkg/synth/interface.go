package synth

import (
	"context"

	"github.com/callsimlabs/callsim/pkg/audio"
)

// Synthesizer defines the contract for any speech synthesis implementation.
type Synthesizer interface {
	// Name returns synthesizer name for logging/metrics.
	Name() string
	// Synthesize renders text in the given language into a transient clip.
	// The caller owns releasing the clip.
	Synthesize(ctx context.Context, text, lang string) (*audio.Clip, error)
}
