package client

import (
	"fmt"

	"github.com/callsimlabs/callsim/pkg/transcript"
)

// Session is the immutable handle returned by StartSession. Callers thread it
// into every subsequent chat and end call for that simulation.
type Session struct {
	ID       string
	Token    string
	Greeting string
}

// HealthStatus is the liveness probe result. A transport failure is folded
// into Status/Error instead of being raised.
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Error     string `json:"-"`
}

func (h HealthStatus) Healthy() bool { return h.Status == "healthy" }

// ChatReply is the parsed response of one chat exchange.
type ChatReply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// EndResult is the session summary returned when a call ends.
type EndResult struct {
	Status     string             `json:"status"`
	Message    string             `json:"message"`
	Transcript []transcript.Entry `json:"transcript"`
}

// Voice describes one server-supported synthesis voice.
type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Lang string `json:"lang"`
}

// APIError is a non-2xx response with the server's human-readable message
// when the body carried one.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d", e.Status)
}

type startResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	Greeting  string `json:"greeting"`
}

type errorBody struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}
