package recog

import "context"

// SourceResult is one raw result from a capture source. Segments arrive in
// platform order; the adapter concatenates them without separators.
type SourceResult struct {
	Segments []string
	Final    bool
	Err      error
	Ended    bool
}

// CaptureSource defines the contract for any speech capture implementation.
type CaptureSource interface {
	// Name returns source name for logging/metrics.
	Name() string
	// Start begins capture in the given language.
	Start(ctx context.Context, lang string) error
	// Stop shuts down capture. The Results channel closes afterwards.
	Stop() error
	// Results returns the stream of raw recognition results. The channel is
	// closed when capture ends.
	Results() <-chan SourceResult
}
