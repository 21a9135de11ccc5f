package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/callsimlabs/callsim/pkg/recog"
)

type CaptureConfig struct {
	Transcript      string
	InterimSegments []string
	EmitInterim     bool
	FailStart       bool
	Err             error
}

// CaptureSource emits a deterministic recognition sequence when started:
// optional interim segments, then the final transcript, then end of capture.
// Each Start opens a fresh results stream, so a source can be restarted
// after a capture ends.
type CaptureSource struct {
	cfg     CaptureConfig
	mu      sync.Mutex
	out     chan recog.SourceResult
	started bool
	lang    string
}

func NewCapture(cfg CaptureConfig) *CaptureSource {
	if cfg.Transcript == "" {
		cfg.Transcript = "mock transcript"
	}
	return &CaptureSource{cfg: cfg, out: make(chan recog.SourceResult, 16)}
}

func (s *CaptureSource) Name() string { return "mock_capture" }

func (s *CaptureSource) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

func (s *CaptureSource) Start(ctx context.Context, lang string) error {
	if s.cfg.FailStart {
		return errors.New("capture start refused")
	}
	out := make(chan recog.SourceResult, 16)
	s.mu.Lock()
	s.started = true
	s.lang = lang
	s.out = out
	s.mu.Unlock()

	// The goroutine writes only to its own capture's channel; a later
	// restart never races with this close.
	go func() {
		defer close(out)
		if s.cfg.Err != nil {
			out <- recog.SourceResult{Err: s.cfg.Err}
			return
		}
		if s.cfg.EmitInterim {
			segments := s.cfg.InterimSegments
			if len(segments) == 0 {
				segments = []string{s.cfg.Transcript}
			}
			out <- recog.SourceResult{Segments: segments}
		}
		out <- recog.SourceResult{Segments: []string{s.cfg.Transcript}, Final: true}
		out <- recog.SourceResult{Ended: true}
	}()
	return nil
}

func (s *CaptureSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	return nil
}

func (s *CaptureSource) Results() <-chan recog.SourceResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out
}

var _ recog.CaptureSource = (*CaptureSource)(nil)
