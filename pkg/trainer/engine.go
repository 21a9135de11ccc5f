package trainer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/callsimlabs/callsim/pkg/audio"
	"github.com/callsimlabs/callsim/pkg/call"
	"github.com/callsimlabs/callsim/pkg/client"
	"github.com/callsimlabs/callsim/pkg/logging"
	"github.com/callsimlabs/callsim/pkg/metrics"
	"github.com/callsimlabs/callsim/pkg/providers/gateway"
	"github.com/callsimlabs/callsim/pkg/recog"
	"github.com/callsimlabs/callsim/pkg/redact"
	"github.com/callsimlabs/callsim/pkg/synth"
	"github.com/callsimlabs/callsim/pkg/transcript"
)

// Engine wires one trainee-facing simulation loop: a call over the gateway,
// a speaker for agent replies, and a recognition adapter for trainee speech.
type Engine struct {
	cfg      Config
	client   *client.Client
	call     *call.Call
	speaker  *synth.Speaker
	adapter  *recog.Adapter
	streamID string
	logger   *slog.Logger

	observer    metrics.Observer
	metricsSink io.Closer
}

type EngineOptions struct {
	Config    Config
	Providers *ProviderRegistry
	// Player renders agent speech. Required for spoken replies; with a nil
	// player replies stay text-only.
	Player audio.Player
	// Fallback overrides the configured synthesis provider as the local
	// degradation path. Optional.
	Fallback synth.Synthesizer
	// Observer overrides the default metrics sink. Optional.
	Observer metrics.Observer
}

func NewEngine(opts EngineOptions) (*Engine, error) {
	cfg := opts.Config
	logging.Init(cfg.LogLevel, cfg.LogFormat)
	logger := logging.NewComponentLogger(slog.Default(), "trainer")
	redact.SetEnabled(cfg.Observability.RedactPII)

	c := client.New(cfg.Gateway.BaseURL, cfg.Gateway.APIKey)
	streamID := uuid.NewString()

	providers := opts.Providers
	if providers == nil {
		providers = NewProviderRegistry()
	}

	fallback := opts.Fallback
	if fallback == nil && cfg.Speech.Synthesis.Provider != "" {
		built, err := providers.BuildSynth(cfg.Speech.Synthesis.Provider, cfg)
		if err != nil {
			return nil, err
		}
		fallback = built
	}

	source, err := providers.BuildCapture(cfg.Speech.Recognition.Provider, cfg, streamID)
	if err != nil {
		logger.Warn("recognition unavailable, voice input disabled",
			slog.String("provider", cfg.Speech.Recognition.Provider),
			slog.String("error", err.Error()))
		source = nil
	}
	adapter := recog.NewAdapter(source)
	adapter.SetLanguage(cfg.Speech.Language)

	logger.Info("trainer_init",
		slog.String("environment", cfg.Environment),
		slog.String("gateway", cfg.Gateway.BaseURL),
		slog.String("recognition", cfg.Speech.Recognition.Provider),
		slog.String("synthesis", cfg.Speech.Synthesis.Provider),
		slog.Bool("voice_input", adapter.IsSupported()))

	e := &Engine{
		cfg:      cfg,
		client:   c,
		call:     call.New(c),
		speaker:  synth.NewSpeaker(gateway.NewSynthesizer(c), fallback, opts.Player),
		adapter:  adapter,
		streamID: streamID,
		logger:   logger,
		observer: opts.Observer,
	}
	if e.observer == nil {
		e.observer = e.buildObserver()
	}
	return e, nil
}

func (e *Engine) buildObserver() metrics.Observer {
	dir := e.cfg.Observability.ArtifactsDir
	if dir == "" {
		return metrics.NoopObserver{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.logger.Warn("metrics sink unavailable", slog.String("error", err.Error()))
		return metrics.NoopObserver{}
	}
	f, err := os.OpenFile(filepath.Join(dir, "metrics.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		e.logger.Warn("metrics sink unavailable", slog.String("error", err.Error()))
		return metrics.NoopObserver{}
	}
	e.metricsSink = f
	return metrics.NewAsyncObserver(metrics.NewJSONLObserver(f), 256)
}

func (e *Engine) Client() *client.Client { return e.client }

func (e *Engine) Call() *call.Call { return e.call }

func (e *Engine) Recognizer() *recog.Adapter { return e.adapter }

// StartCall opens a session with the configured caller profile and speaks
// the greeting. Speech is best-effort; a greeting that cannot be spoken is
// still returned as text.
func (e *Engine) StartCall(ctx context.Context) (client.Session, error) {
	sess, err := e.call.Start(ctx, e.cfg.Caller.Info())
	if err != nil {
		return client.Session{}, err
	}
	if sess.Greeting != "" {
		e.speak(ctx, sess.Greeting)
	}
	return sess, nil
}

// HandleUtterance exchanges one chat turn and speaks the agent reply.
func (e *Engine) HandleUtterance(ctx context.Context, text string) (string, error) {
	started := time.Now()
	reply, err := e.call.Send(ctx, text)
	if err != nil {
		return "", err
	}
	e.observer.RecordEvent(metrics.Turn("chat_turn", e.callID(), started))
	e.speak(ctx, reply.Response)
	return reply.Response, nil
}

// Listen begins speech capture. Returns false when no recognizer exists.
func (e *Engine) Listen(ctx context.Context) bool {
	return e.adapter.Start(ctx)
}

// Run consumes recognition events until ctx is done, exchanging a chat turn
// for every final transcript. Errors end capture without automatic restart;
// the owner decides whether to call Listen again.
func (e *Engine) Run(ctx context.Context, onReply func(transcript, reply string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-e.adapter.Events():
			if !ok {
				return nil
			}
			switch ev.Type {
			case recog.EventFinal:
				reply, err := e.HandleUtterance(ctx, ev.Transcript)
				if err != nil {
					e.logger.Error("chat turn failed", slog.String("error", err.Error()))
					continue
				}
				if onReply != nil {
					onReply(ev.Transcript, reply)
				}
			case recog.EventError:
				e.logger.Warn("recognition error", slog.String("code", ev.Code))
			case recog.EventEnded:
				e.logger.Debug("capture ended")
			}
		}
	}
}

// EndCall closes the session and persists the local transcript when an
// artifacts directory is configured.
func (e *Engine) EndCall(ctx context.Context) (client.EndResult, error) {
	rec := e.call.Recorder()
	result, err := e.call.End(ctx)

	if dir := e.cfg.Observability.ArtifactsDir; dir != "" && rec != nil && rec.Len() > 0 {
		if days := e.cfg.Observability.RetentionDays; days > 0 {
			_, _ = transcript.PurgeArtifacts(dir, time.Duration(days)*24*time.Hour)
		}
		if path, werr := transcript.WriteJSONL(dir, rec); werr != nil {
			e.logger.Warn("transcript write failed", slog.String("error", werr.Error()))
		} else {
			e.logger.Info("transcript written", slog.String("path", path))
		}
	}
	return result, err
}

// Drain implements runner.Drainer: stop capture, close any open call, and
// flush the metrics sink.
func (e *Engine) Drain() error {
	e.adapter.Stop()
	var err error
	if e.call.Active() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, err = e.EndCall(ctx)
	}
	if async, ok := e.observer.(*metrics.AsyncObserver); ok {
		async.Close()
	}
	if e.metricsSink != nil {
		_ = e.metricsSink.Close()
	}
	return err
}

func (e *Engine) speak(ctx context.Context, text string) {
	started := time.Now()
	if err := e.speaker.Speak(ctx, text, e.cfg.Speech.Language); err != nil {
		e.logger.Warn("speech playback unavailable", slog.String("error", err.Error()))
		return
	}
	e.observer.RecordEvent(metrics.Turn("tts_speak", e.callID(), started))
}

func (e *Engine) callID() string {
	if rec := e.call.Recorder(); rec != nil {
		return rec.CallID()
	}
	return ""
}
