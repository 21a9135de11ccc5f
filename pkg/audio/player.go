package audio

import "context"

// Player renders a clip to an audible output, returning when playback ends.
// It must not release the clip; ownership stays with the caller.
type Player interface {
	// Name returns player name for logging/metrics.
	Name() string
	// Play blocks until the clip finished playing or ctx is cancelled.
	Play(ctx context.Context, clip *Clip) error
}
