package recog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/callsimlabs/callsim/pkg/logging"
)

// Adapter wraps a capture source behind a capability-checked interface with
// two states: Idle and Listening. Results are pushed as typed events on a
// single stream instead of separate callback slots.
type Adapter struct {
	source    CaptureSource
	supported bool
	events    chan Event
	logger    *slog.Logger

	mu        sync.Mutex
	listening bool
	lang      string
}

// NewAdapter detects capability once, at construction: a nil source means
// the platform has no recognizer and every Start returns false.
func NewAdapter(source CaptureSource) *Adapter {
	return &Adapter{
		source:    source,
		supported: source != nil,
		events:    make(chan Event, 32),
		lang:      "en",
		logger:    logging.NewComponentLogger(slog.Default(), "recog_adapter"),
	}
}

// IsSupported reports the capability detected at construction time.
func (a *Adapter) IsSupported() bool { return a.supported }

// Events returns the adapter's event stream. Events are dropped rather than
// blocking when the consumer falls behind.
func (a *Adapter) Events() <-chan Event { return a.events }

// SetLanguage updates the capture language for subsequent starts. An
// in-progress capture is unaffected.
func (a *Adapter) SetLanguage(lang string) {
	if strings.TrimSpace(lang) == "" {
		return
	}
	a.mu.Lock()
	a.lang = lang
	a.mu.Unlock()
}

// Listening reports whether a capture is in progress.
func (a *Adapter) Listening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listening
}

// Start begins capture. It returns false without error when the capability
// is unavailable, when already listening, or when the source fails to start;
// no events fire in those cases.
func (a *Adapter) Start(ctx context.Context) bool {
	if !a.supported {
		return false
	}
	a.mu.Lock()
	if a.listening {
		a.mu.Unlock()
		return false
	}
	lang := a.lang
	a.listening = true
	a.mu.Unlock()

	if err := a.source.Start(ctx, lang); err != nil {
		a.logger.Error("capture start failed",
			slog.String("source", a.source.Name()),
			slog.String("error", err.Error()))
		a.mu.Lock()
		a.listening = false
		a.mu.Unlock()
		return false
	}

	go a.pump()
	return true
}

// Stop halts an in-progress capture. While Idle it is a silent no-op.
func (a *Adapter) Stop() {
	a.mu.Lock()
	listening := a.listening
	a.mu.Unlock()
	if !listening {
		return
	}
	if err := a.source.Stop(); err != nil {
		a.logger.Warn("capture stop failed",
			slog.String("source", a.source.Name()),
			slog.String("error", err.Error()))
	}
}

func (a *Adapter) pump() {
	for res := range a.source.Results() {
		if res.Err != nil {
			a.emit(Event{Type: EventError, Code: res.Err.Error()})
			break
		}
		text := strings.Join(res.Segments, "")
		if text != "" {
			kind := EventInterim
			if res.Final {
				kind = EventFinal
			}
			a.emit(Event{Type: kind, Transcript: text})
		}
		if res.Ended {
			break
		}
	}

	a.mu.Lock()
	a.listening = false
	a.mu.Unlock()
	a.emit(Event{Type: EventEnded})
}

func (a *Adapter) emit(ev Event) {
	select {
	case a.events <- ev:
	default:
		a.logger.Warn("event stream full, dropping",
			slog.String("type", string(ev.Type)))
	}
}
