package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/callsimlabs/callsim/pkg/client"
)

func TestSynthesizeDelegatesToGateway(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tts" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte{1, 2, 3, 4})
	}))
	defer srv.Close()

	s := NewSynthesizer(client.New(srv.URL, "key"))
	if s.Name() != "gateway_tts" {
		t.Fatalf("unexpected name %q", s.Name())
	}
	clip, err := s.Synthesize(context.Background(), "hello there", "en")
	if err != nil {
		t.Fatalf("synthesize error: %v", err)
	}
	defer clip.Release()
	if clip.Len() != 4 {
		t.Fatalf("unexpected clip size %d", clip.Len())
	}
	if clip.MIME() != "audio/mpeg" {
		t.Fatalf("unexpected mime %q", clip.MIME())
	}
	if got["text"] != "hello there" || got["lang"] != "en" {
		t.Fatalf("unexpected request body %v", got)
	}
}
