package call

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/callsimlabs/callsim/pkg/client"
	"github.com/callsimlabs/callsim/pkg/errorsx"
	"github.com/callsimlabs/callsim/pkg/logging"
	"github.com/callsimlabs/callsim/pkg/transcript"
)

var (
	// ErrNoActiveCall is returned by Send when no session has been started
	// or the call already ended. No network request is made.
	ErrNoActiveCall = errorsx.Wrap(errors.New("no active call"), errorsx.ReasonNoActiveCall)
	// ErrCallActive is returned by Start while a call is in progress.
	ErrCallActive = errors.New("call already active")
)

// Call manages one simulation's lifecycle over a session client: start, chat
// exchanges, end. Every send between start and end carries the identity
// issued at start. It also records a local transcript mirroring the
// server-side one.
type Call struct {
	client *client.Client
	logger *slog.Logger

	mu       sync.Mutex
	sess     client.Session
	active   bool
	starting bool
	recorder *transcript.Recorder
}

func New(c *client.Client) *Call {
	return &Call{
		client: c,
		logger: logging.NewComponentLogger(slog.Default(), "call"),
	}
}

// Start opens a new session. On failure no state changes, so the caller may
// retry. The server greeting becomes the first transcript entry.
func (c *Call) Start(ctx context.Context, callerInfo map[string]any) (client.Session, error) {
	c.mu.Lock()
	if c.active || c.starting {
		c.mu.Unlock()
		return client.Session{}, ErrCallActive
	}
	// Hold the starting claim across the network call so a second Start
	// racing this one is rejected instead of overwriting the session.
	c.starting = true
	c.mu.Unlock()

	sess, err := c.client.StartSession(ctx, callerInfo)
	if err != nil {
		c.mu.Lock()
		c.starting = false
		c.mu.Unlock()
		return client.Session{}, err
	}

	rec := transcript.NewRecorder(uuid.NewString())
	if sess.Greeting != "" {
		rec.Add(transcript.SpeakerAgent, sess.Greeting)
	}

	c.mu.Lock()
	c.sess = sess
	c.active = true
	c.starting = false
	c.recorder = rec
	c.mu.Unlock()

	c.logger.Info("call started", slog.String("session_id", sess.ID), slog.String("call_id", rec.CallID()))
	return sess, nil
}

// Active reports whether a session is in progress.
func (c *Call) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Session returns the current handle and whether one is active.
func (c *Call) Session() (client.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess, c.active
}

// Send posts one chat turn. Concurrent sends are not serialized; they race to
// completion in caller order only.
func (c *Call) Send(ctx context.Context, text string) (client.ChatReply, error) {
	c.mu.Lock()
	sess, active, rec := c.sess, c.active, c.recorder
	c.mu.Unlock()
	if !active {
		return client.ChatReply{}, ErrNoActiveCall
	}

	reply, err := c.client.SendMessage(ctx, sess, text)
	if err != nil {
		return client.ChatReply{}, err
	}
	rec.Add(transcript.SpeakerCaller, text)
	rec.Add(transcript.SpeakerAgent, reply.Response)
	return reply, nil
}

// End closes the call. With no active session it is a local no-op with zero
// network calls. Otherwise the end request is fire-and-forget: local
// identity is cleared once the request has been issued, even when the server
// call fails, so a dead gateway cannot wedge the trainee in a phantom call.
func (c *Call) End(ctx context.Context) (client.EndResult, error) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return client.EndResult{Status: "no_session"}, nil
	}
	sess := c.sess
	c.mu.Unlock()

	result, err := c.client.EndSession(ctx, sess)

	c.mu.Lock()
	c.sess = client.Session{}
	c.active = false
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("end request failed, local state cleared anyway",
			slog.String("session_id", sess.ID), slog.String("error", err.Error()))
		return client.EndResult{}, err
	}
	return result, nil
}

// Transcript returns the locally recorded entries for the current or most
// recently started call.
func (c *Call) Transcript() []transcript.Entry {
	c.mu.Lock()
	rec := c.recorder
	c.mu.Unlock()
	if rec == nil {
		return nil
	}
	return rec.Entries()
}

// Recorder exposes the live recorder so owners can persist artifacts.
func (c *Call) Recorder() *transcript.Recorder {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recorder
}
