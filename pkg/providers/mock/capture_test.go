package mock

import (
	"context"
	"testing"
	"time"

	"github.com/callsimlabs/callsim/pkg/recog"
)

func drainCapture(t *testing.T, s *CaptureSource) []recog.SourceResult {
	t.Helper()
	out := s.Results()
	var results []recog.SourceResult
	timeout := time.After(2 * time.Second)
	for {
		select {
		case res, ok := <-out:
			if !ok {
				return results
			}
			results = append(results, res)
		case <-timeout:
			t.Fatalf("timed out draining capture, got %v", results)
		}
	}
}

func TestCaptureEmitsFinalThenEnded(t *testing.T) {
	s := NewCapture(CaptureConfig{Transcript: "hello"})
	if err := s.Start(context.Background(), "en"); err != nil {
		t.Fatalf("start error: %v", err)
	}
	results := drainCapture(t, s)
	if len(results) != 2 {
		t.Fatalf("expected final and ended, got %v", results)
	}
	if !results[0].Final || results[0].Segments[0] != "hello" {
		t.Fatalf("unexpected final result %+v", results[0])
	}
	if !results[1].Ended {
		t.Fatalf("expected ended marker, got %+v", results[1])
	}
	if s.Language() != "en" {
		t.Fatalf("unexpected language %q", s.Language())
	}
}

func TestCaptureRestartsAfterEnd(t *testing.T) {
	s := NewCapture(CaptureConfig{Transcript: "hello"})
	for i := 0; i < 3; i++ {
		if err := s.Start(context.Background(), "en"); err != nil {
			t.Fatalf("start %d error: %v", i, err)
		}
		results := drainCapture(t, s)
		if len(results) != 2 || !results[0].Final {
			t.Fatalf("capture %d: unexpected results %v", i, results)
		}
	}
}

func TestAdapterRestartsCapture(t *testing.T) {
	s := NewCapture(CaptureConfig{Transcript: "again"})
	a := recog.NewAdapter(s)

	for i := 0; i < 2; i++ {
		if !a.Start(context.Background()) {
			t.Fatalf("start %d refused", i)
		}
		var final string
		timeout := time.After(2 * time.Second)
	capture:
		for {
			select {
			case ev := <-a.Events():
				switch ev.Type {
				case recog.EventFinal:
					final = ev.Transcript
				case recog.EventError:
					t.Fatalf("capture %d: unexpected error event %+v", i, ev)
				case recog.EventEnded:
					break capture
				}
			case <-timeout:
				t.Fatalf("capture %d: timed out waiting for ended", i)
			}
		}
		if final != "again" {
			t.Fatalf("capture %d: unexpected final %q", i, final)
		}
	}
}
