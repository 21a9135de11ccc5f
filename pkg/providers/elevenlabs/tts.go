package elevenlabs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/callsimlabs/callsim/pkg/audio"
	"github.com/callsimlabs/callsim/pkg/errorsx"
	"github.com/callsimlabs/callsim/pkg/resilience"
	"github.com/callsimlabs/callsim/pkg/synth"
)

type Config struct {
	APIKey       string
	VoiceID      string
	ModelID      string
	OutputFormat string
}

// Synthesizer renders speech locally over the ElevenLabs stream-input
// websocket, collecting the streamed chunks into one clip. It is the
// fallback strategy when the gateway's TTS is unavailable.
type Synthesizer struct {
	cfg    Config
	dial   resilience.RetryPolicy
	logger *slog.Logger
}

func New(cfg Config) *Synthesizer {
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "mp3_44100_128"
	}
	return &Synthesizer{
		cfg:    cfg,
		dial:   resilience.NewRetryPolicy(2, 200*time.Millisecond),
		logger: slog.Default().With(slog.String("component", "elevenlabs_tts")),
	}
}

func (s *Synthesizer) Name() string { return "elevenlabs_tts" }

// Configured reports whether the synthesizer has the credentials it needs.
func (s *Synthesizer) Configured() bool {
	return s.cfg.APIKey != "" && s.cfg.VoiceID != ""
}

func (s *Synthesizer) Synthesize(ctx context.Context, text, lang string) (*audio.Clip, error) {
	// Capability check happens before any network I/O.
	if !s.Configured() {
		return nil, errorsx.Wrap(errors.New("missing elevenlabs config"), errorsx.ReasonTTSUnavailable)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty text")
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if err := s.sendRequest(conn, text, lang); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}

	data, err := s.collect(ctx, conn)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	return audio.NewClip(data, s.mime()), nil
}

func (s *Synthesizer) connect(ctx context.Context) (*websocket.Conn, error) {
	u := s.buildURL()
	dialer := websocket.Dialer{Proxy: http.ProxyFromEnvironment}
	var conn *websocket.Conn
	err := s.dial.Do(func() error {
		c, resp, err := dialer.DialContext(ctx, u, http.Header{
			"xi-api-key": []string{s.cfg.APIKey},
		})
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
				return resilience.RateLimitError{Provider: "elevenlabs", Message: resp.Status}
			}
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		s.logger.Error("failed to connect to ElevenLabs", slog.String("error", err.Error()))
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	return conn, nil
}

func (s *Synthesizer) sendRequest(conn *websocket.Conn, text, lang string) error {
	bos := map[string]any{
		"text": " ",
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.8,
		},
	}
	if lang != "" {
		bos["generation_config"] = map[string]any{"language_code": lang}
	}
	if err := writeJSON(conn, bos); err != nil {
		return err
	}
	if !strings.HasSuffix(text, " ") {
		text += " "
	}
	if err := writeJSON(conn, map[string]any{"text": text, "try_trigger_generation": true}); err != nil {
		return err
	}
	// Empty text closes the input stream and flushes generation.
	return writeJSON(conn, map[string]any{"text": ""})
}

func (s *Synthesizer) collect(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	var buf bytes.Buffer
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && buf.Len() > 0 {
				return buf.Bytes(), nil
			}
			return nil, err
		}

		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("tts websocket raw data", "data", string(data))
			continue
		}
		if audioB64, ok := msg["audio"].(string); ok && audioB64 != "" {
			raw, err := base64.StdEncoding.DecodeString(audioB64)
			if err != nil {
				s.logger.Error("tts audio decode error", "error", err)
				continue
			}
			buf.Write(raw)
		}
		if final, ok := msg["isFinal"].(bool); ok && final {
			return buf.Bytes(), nil
		}
	}
}

func (s *Synthesizer) buildURL() string {
	base := "wss://api.elevenlabs.io/v1/text-to-speech/" + s.cfg.VoiceID + "/stream-input"
	q := url.Values{}
	if s.cfg.ModelID != "" {
		q.Set("model_id", s.cfg.ModelID)
	}
	q.Set("output_format", s.cfg.OutputFormat)
	return base + "?" + q.Encode()
}

func (s *Synthesizer) mime() string {
	if strings.HasPrefix(s.cfg.OutputFormat, "pcm") {
		return "audio/pcm"
	}
	if strings.Contains(s.cfg.OutputFormat, "ulaw") {
		return "audio/basic"
	}
	return "audio/mpeg"
}

func writeJSON(conn *websocket.Conn, payload map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, b)
}

var _ synth.Synthesizer = (*Synthesizer)(nil)
