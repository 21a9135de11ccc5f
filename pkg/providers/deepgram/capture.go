package deepgram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/websocket/interfaces"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/callsimlabs/callsim/pkg/errorsx"
	"github.com/callsimlabs/callsim/pkg/logging"
	"github.com/callsimlabs/callsim/pkg/recog"
)

type Config struct {
	APIKey     string
	Model      string
	SampleRate int
	Encoding   string
	Interim    bool
	StreamID   string
	// Input is the raw audio byte stream to transcribe, typically a
	// microphone pipe.
	Input io.Reader
}

// CaptureSource streams audio to Deepgram live transcription and surfaces
// interim/final transcripts as recognition results. Each Start opens a
// fresh results stream, so a source can be restarted after a capture ends.
type CaptureSource struct {
	cfg      Config
	dgClient *client.WSCallback
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *slog.Logger

	// mu serializes emit against finish: SDK callbacks run on their own
	// goroutine and may still deliver while Stop closes the stream.
	mu     sync.Mutex
	out    chan recog.SourceResult
	closed bool
}

// New builds a capture source. It errors when the capability is not
// available (no API key or no audio input); callers treat that as an
// unsupported platform.
func New(cfg Config) (*CaptureSource, error) {
	if cfg.APIKey == "" {
		return nil, errorsx.Wrap(errors.New("missing deepgram api key"), errorsx.ReasonRecogConnect)
	}
	if cfg.Input == nil {
		return nil, errorsx.Wrap(errors.New("no audio input"), errorsx.ReasonRecogConnect)
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	return &CaptureSource{
		cfg:    cfg,
		out:    make(chan recog.SourceResult, 64),
		logger: logging.NewComponentLogger(slog.Default(), "deepgram_capture"),
	}, nil
}

func (s *CaptureSource) Name() string { return "deepgram_capture" }

func (s *CaptureSource) Start(ctx context.Context, lang string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.mu.Lock()
	s.out = make(chan recog.SourceResult, 64)
	s.closed = false
	s.mu.Unlock()

	clientOptions := &interfaces.ClientOptions{
		EnableKeepAlive: true,
	}
	transcriptOptions := &interfaces.LiveTranscriptionOptions{
		Model:          s.cfg.Model,
		Language:       lang,
		Encoding:       s.cfg.Encoding,
		SampleRate:     s.cfg.SampleRate,
		InterimResults: s.cfg.Interim,
		SmartFormat:    true,
	}

	s.logger.Info("initializing deepgram connection",
		slog.String("stream_id", s.cfg.StreamID),
		slog.String("model", s.cfg.Model),
		slog.String("language", lang),
		slog.Int("sample_rate", s.cfg.SampleRate))

	cb := &callback{parent: s}
	dgClient, err := client.NewWSUsingCallback(s.ctx, s.cfg.APIKey, clientOptions, transcriptOptions, cb)
	if err != nil {
		s.logger.Error("deepgram_client_create_error",
			slog.String("error", err.Error()),
			slog.String("stream_id", s.cfg.StreamID))
		return errorsx.Wrap(err, errorsx.ReasonRecogConnect)
	}
	s.dgClient = dgClient

	if connected := s.dgClient.Connect(); !connected {
		return errorsx.Wrap(errors.New("deepgram connection failed"), errorsx.ReasonRecogConnect)
	}

	go func() {
		if err := s.dgClient.Stream(s.cfg.Input); err != nil && s.ctx.Err() == nil {
			s.logger.Error("deepgram_stream_error",
				slog.String("error", err.Error()),
				slog.String("stream_id", s.cfg.StreamID))
			s.emit(recog.SourceResult{Err: errorsx.Wrap(err, errorsx.ReasonRecogCapture)})
		}
		s.finish()
	}()
	return nil
}

func (s *CaptureSource) Stop() error {
	s.logger.Info("closing deepgram connection",
		slog.String("stream_id", s.cfg.StreamID))
	if s.cancel != nil {
		s.cancel()
	}
	if s.dgClient != nil {
		s.dgClient.Stop()
	}
	s.finish()
	return nil
}

func (s *CaptureSource) Results() <-chan recog.SourceResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out
}

func (s *CaptureSource) emit(res recog.SourceResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.out <- res:
	default:
		s.logger.Warn("deepgram_out_channel_full",
			slog.String("stream_id", s.cfg.StreamID))
	}
}

func (s *CaptureSource) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

// --- Callback Implementation ---

type callback struct {
	parent *CaptureSource
}

func (c *callback) Open(or *msginterfaces.OpenResponse) error {
	c.parent.logger.Info("deepgram_connection_opened",
		slog.String("stream_id", c.parent.cfg.StreamID))
	return nil
}

func (c *callback) Message(mr *msginterfaces.MessageResponse) error {
	if len(mr.Channel.Alternatives) == 0 {
		return nil
	}
	transcript := mr.Channel.Alternatives[0].Transcript
	if transcript == "" {
		return nil
	}
	isFinal := mr.IsFinal || mr.SpeechFinal

	c.parent.logger.Debug("transcript_received",
		slog.String("stream_id", c.parent.cfg.StreamID),
		slog.Bool("is_final", isFinal))

	c.parent.emit(recog.SourceResult{Segments: []string{transcript}, Final: isFinal})
	return nil
}

func (c *callback) Metadata(md *msginterfaces.MetadataResponse) error {
	c.parent.logger.Debug("deepgram_metadata_received",
		slog.String("stream_id", c.parent.cfg.StreamID),
		slog.String("request_id", md.RequestID))
	return nil
}

func (c *callback) SpeechStarted(ssr *msginterfaces.SpeechStartedResponse) error {
	c.parent.logger.Debug("speech_started_event",
		slog.String("stream_id", c.parent.cfg.StreamID))
	return nil
}

func (c *callback) UtteranceEnd(ur *msginterfaces.UtteranceEndResponse) error {
	c.parent.logger.Debug("utterance_end_event",
		slog.String("stream_id", c.parent.cfg.StreamID))
	return nil
}

func (c *callback) Close(cr *msginterfaces.CloseResponse) error {
	c.parent.logger.Info("deepgram_connection_closed",
		slog.String("stream_id", c.parent.cfg.StreamID))
	c.parent.finish()
	return nil
}

func (c *callback) Error(er *msginterfaces.ErrorResponse) error {
	c.parent.logger.Error("deepgram_error",
		slog.String("stream_id", c.parent.cfg.StreamID),
		slog.String("error_code", er.ErrCode),
		slog.String("error_message", er.ErrMsg))
	c.parent.emit(recog.SourceResult{Err: errors.New(er.ErrCode)})
	return nil
}

func (c *callback) UnhandledEvent(byData []byte) error {
	c.parent.logger.Debug("deepgram_unhandled_event",
		slog.String("stream_id", c.parent.cfg.StreamID))
	return nil
}

var _ recog.CaptureSource = (*CaptureSource)(nil)
