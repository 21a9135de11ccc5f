package transcript

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/callsimlabs/callsim/pkg/redact"
)

func TestRecorderPreservesOrder(t *testing.T) {
	rec := NewRecorder("call-1")
	rec.Add(SpeakerAgent, "Hello! How may I assist you today?")
	rec.Add(SpeakerCaller, "My package is late")
	rec.Add(SpeakerAgent, "I apologize for the delay")
	rec.Add(SpeakerCaller, "")

	entries := rec.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Speaker != SpeakerAgent || entries[1].Speaker != SpeakerCaller {
		t.Fatalf("unexpected speaker order: %v", entries)
	}
	if entries[1].Text != "My package is late" {
		t.Fatalf("unexpected text: %q", entries[1].Text)
	}
	if _, err := time.Parse(time.RFC3339, entries[0].Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
}

func TestWriteJSONL(t *testing.T) {
	dir := t.TempDir()
	rec := NewRecorder("call-2")
	rec.Add(SpeakerAgent, "greeting")
	rec.Add(SpeakerCaller, "question")

	path, err := WriteJSONL(dir, rec)
	if err != nil {
		t.Fatalf("write error: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	defer f.Close()

	var lines []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("bad line: %v", err)
		}
		lines = append(lines, e)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1].Text != "question" {
		t.Fatalf("unexpected text: %q", lines[1].Text)
	}
}

func TestWriteJSONLRedactsEntries(t *testing.T) {
	redact.SetEnabled(true)
	defer redact.SetEnabled(false)

	dir := t.TempDir()
	rec := NewRecorder("call-3")
	rec.Add(SpeakerCaller, "my email is jane@example.com")

	path, err := WriteJSONL(dir, rec)
	if err != nil {
		t.Fatalf("write error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if strings.Contains(string(data), "example.com") {
		t.Fatalf("artifact leaked email: %s", data)
	}
	if rec.Entries()[0].Text != "my email is jane@example.com" {
		t.Fatalf("in-memory transcript should stay verbatim")
	}
}

func TestPurgeArtifacts(t *testing.T) {
	dir := t.TempDir()
	old := dir + "/old.jsonl"
	if err := os.WriteFile(old, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatalf("chtimes error: %v", err)
	}
	fresh := dir + "/fresh.jsonl"
	if err := os.WriteFile(fresh, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}

	removed, err := PurgeArtifacts(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("purge error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("fresh file should remain: %v", err)
	}
}
