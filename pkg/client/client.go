package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/callsimlabs/callsim/pkg/audio"
	"github.com/callsimlabs/callsim/pkg/errorsx"
	"github.com/callsimlabs/callsim/pkg/logging"
	"github.com/callsimlabs/callsim/pkg/resilience"
)

const (
	headerAPIKey       = "X-API-Key"
	headerSessionToken = "X-Session-Token"
)

// Client talks to a CallSim gateway. It holds no session identity; session
// handles returned by StartSession are threaded in by the caller, so one
// client can serve any number of concurrent calls.
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	logger *slog.Logger
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logging.NewComponentLogger(slog.Default(), "callsim_client"),
	}
}

// Health probes the gateway. It never returns an error; transport failures
// are captured into the returned status so callers can treat this as a
// non-fatal probe.
func (c *Client) Health(ctx context.Context) HealthStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/health", nil)
	if err != nil {
		return HealthStatus{Status: "unreachable", Error: err.Error()}
	}
	c.applyHeaders(req, "")
	resp, err := c.client().Do(req)
	if err != nil {
		c.log().Warn("health probe failed", slog.String("error", err.Error()))
		return HealthStatus{Status: "unreachable", Error: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return HealthStatus{Status: "unhealthy", Error: resp.Status}
	}
	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return HealthStatus{Status: "unhealthy", Error: err.Error()}
	}
	return status
}

// StartSession opens a new call simulation. callerInfo is a free-form
// description of the simulated caller and may be nil. On any failure no
// session exists, so the caller may simply retry.
func (c *Client) StartSession(ctx context.Context, callerInfo map[string]any) (Session, error) {
	if callerInfo == nil {
		callerInfo = map[string]any{}
	}
	var parsed startResponse
	err := c.postJSON(ctx, "/api/session/start", "", map[string]any{"caller_info": callerInfo}, &parsed)
	if err != nil {
		return Session{}, errorsx.Wrap(err, errorsx.ReasonSessionStart)
	}
	c.log().Info("session started", slog.String("session_id", parsed.SessionID))
	return Session{ID: parsed.SessionID, Token: parsed.Token, Greeting: parsed.Greeting}, nil
}

// SendMessage posts one chat turn for the given session and returns the
// parsed reply.
func (c *Client) SendMessage(ctx context.Context, sess Session, message string) (ChatReply, error) {
	var reply ChatReply
	payload := map[string]any{"message": message, "session_id": sess.ID}
	if err := c.postJSON(ctx, "/api/chat", sess.Token, payload, &reply); err != nil {
		return ChatReply{}, errorsx.Wrap(err, errorsx.ReasonChatSend)
	}
	return reply, nil
}

// EndSession closes the given session and returns the server's summary.
func (c *Client) EndSession(ctx context.Context, sess Session) (EndResult, error) {
	var result EndResult
	err := c.postJSON(ctx, "/api/session/"+sess.ID+"/end", sess.Token, map[string]any{}, &result)
	if err != nil {
		return EndResult{}, errorsx.Wrap(err, errorsx.ReasonSessionEnd)
	}
	c.log().Info("session ended", slog.String("session_id", sess.ID), slog.String("status", result.Status))
	return result, nil
}

// Synthesize renders text through the gateway's TTS endpoint and returns the
// audio as a transient clip. The caller owns releasing the clip.
func (c *Client) Synthesize(ctx context.Context, text, lang string) (*audio.Clip, error) {
	if lang == "" {
		lang = "en"
	}
	body, err := json.Marshal(map[string]any{"text": text, "lang": lang})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/tts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.applyHeaders(req, "")
	resp, err := c.client().Do(req)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorsx.Wrap(c.decodeError(resp), errorsx.ReasonTTSSynthesize)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "audio/mpeg"
	}
	return audio.NewClip(data, mime), nil
}

// Voices fetches the server-supported voice catalogue. Voice selection is a
// cosmetic enhancement, so any failure yields an empty list instead of an
// error.
func (c *Client) Voices(ctx context.Context) []Voice {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/tts/voices", nil)
	if err != nil {
		return nil
	}
	c.applyHeaders(req, "")
	resp, err := c.client().Do(req)
	if err != nil {
		c.log().Warn("voice catalogue fetch failed", slog.String("error", err.Error()))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil
	}
	var parsed struct {
		Voices []Voice `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil
	}
	return parsed.Voices
}

func (c *Client) postJSON(ctx context.Context, path, sessionToken string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.applyHeaders(req, sessionToken)
	resp, err := c.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) decodeError(resp *http.Response) error {
	var parsed errorBody
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	msg := parsed.Message
	if msg == "" {
		msg = parsed.Err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return resilience.RateLimitError{Provider: "callsim", Message: msg}
	}
	return APIError{Status: resp.StatusCode, Message: msg}
}

func (c *Client) applyHeaders(req *http.Request, sessionToken string) {
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set(headerAPIKey, c.APIKey)
	}
	if sessionToken != "" {
		req.Header.Set(headerSessionToken, sessionToken)
	}
}

func (c *Client) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		c.logger = logging.NewComponentLogger(slog.Default(), "callsim_client")
	}
	return c.logger
}
