package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/callsimlabs/callsim/pkg/audio"
	"github.com/callsimlabs/callsim/pkg/resilience"
)

func TestStartSessionReturnsHandle(t *testing.T) {
	var gotCallerInfo map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/session/start" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("missing api key header")
		}
		var body map[string]map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotCallerInfo = body["caller_info"]
		_ = json.NewEncoder(w).Encode(map[string]string{
			"session_id": "abc123",
			"token":      "tok1",
			"greeting":   "Hello! How may I assist you today?",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	sess, err := c.StartSession(context.Background(), map[string]any{"name": "Jane"})
	if err != nil {
		t.Fatalf("start error: %v", err)
	}
	if sess.ID != "abc123" || sess.Token != "tok1" {
		t.Fatalf("unexpected session handle: %+v", sess)
	}
	if sess.Greeting == "" {
		t.Fatalf("expected greeting in handle")
	}
	if gotCallerInfo["name"] != "Jane" {
		t.Fatalf("caller info not forwarded: %v", gotCallerInfo)
	}
}

func TestStartSessionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized", "message": "Invalid or missing API key"})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.StartSession(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "Invalid or missing API key" {
		t.Fatalf("expected server message, got %q", err.Error())
	}
}

func TestSendMessageThreadsSessionIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Session-Token") != "tok1" {
			t.Errorf("missing session token header")
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["session_id"] != "abc123" {
			t.Errorf("unexpected session id %v", body["session_id"])
		}
		if body["message"] != "My package is late" {
			t.Errorf("unexpected message %v", body["message"])
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"response":   "I apologize for the delay...",
			"session_id": "abc123",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	sess := Session{ID: "abc123", Token: "tok1"}
	reply, err := c.SendMessage(context.Background(), sess, "My package is late")
	if err != nil {
		t.Fatalf("send error: %v", err)
	}
	if reply.Response != "I apologize for the delay..." {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestSendMessageGenericStatusMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.SendMessage(context.Background(), Session{ID: "x"}, "hi")
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", apiErr.Status)
	}
}

func TestSendMessageRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Rate limit exceeded", "message": "Too many requests. Please try again later."})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := c.SendMessage(context.Background(), Session{ID: "x"}, "hi")
	if !resilience.IsRateLimit(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestEndSessionReturnsSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/session/abc123/end" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ended",
			"message": "Call session ended successfully",
			"transcript": []map[string]string{
				{"speaker": "Agent", "text": "Hello", "timestamp": "2025-01-01T00:00:00Z"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	result, err := c.EndSession(context.Background(), Session{ID: "abc123", Token: "tok1"})
	if err != nil {
		t.Fatalf("end error: %v", err)
	}
	if result.Status != "ended" {
		t.Fatalf("unexpected status %q", result.Status)
	}
	if len(result.Transcript) != 1 || result.Transcript[0].Speaker != "Agent" {
		t.Fatalf("unexpected transcript: %+v", result.Transcript)
	}
}

func TestHealthSwallowsTransportFailure(t *testing.T) {
	c := New("http://127.0.0.1:0", "")
	status := c.Health(context.Background())
	if status.Healthy() {
		t.Fatalf("expected unhealthy status")
	}
	if status.Error == "" {
		t.Fatalf("expected captured error detail")
	}
}

func TestHealthOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "version": "1.0.0"})
	}))
	defer srv.Close()

	status := New(srv.URL, "").Health(context.Background())
	if !status.Healthy() {
		t.Fatalf("expected healthy, got %+v", status)
	}
}

func TestSynthesizeReturnsClip(t *testing.T) {
	payload := []byte{0xff, 0xfb, 0x90, 0x00}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["lang"] != "en" {
			t.Errorf("expected default lang en, got %q", body["lang"])
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	base := audio.LiveClips()
	clip, err := New(srv.URL, "").Synthesize(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("synthesize error: %v", err)
	}
	if clip.MIME() != "audio/mpeg" || clip.Len() != len(payload) {
		t.Fatalf("unexpected clip: mime=%s len=%d", clip.MIME(), clip.Len())
	}
	clip.Release()
	if audio.LiveClips() != base {
		t.Fatalf("clip leak detected")
	}
}

func TestSynthesizeNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Failed to generate speech"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Synthesize(context.Background(), "hello", "en")
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != "Failed to generate speech" {
		t.Fatalf("expected server error message, got %q", err.Error())
	}
}

func TestVoicesEmptyOnFailure(t *testing.T) {
	if voices := New("http://127.0.0.1:0", "").Voices(context.Background()); len(voices) != 0 {
		t.Fatalf("expected empty voice list on failure")
	}
}

func TestVoicesOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"voices": []map[string]string{
			{"id": "en", "name": "English (US)", "lang": "en"},
			{"id": "es", "name": "Spanish", "lang": "es"},
		}})
	}))
	defer srv.Close()

	voices := New(srv.URL, "").Voices(context.Background())
	if len(voices) != 2 || voices[1].ID != "es" {
		t.Fatalf("unexpected voices: %+v", voices)
	}
}
