package transcript

import (
	"sync"
	"time"
)

// Speaker labels match the server-side transcript format.
const (
	SpeakerAgent  = "Agent"
	SpeakerCaller = "Caller"
)

// Entry is one line of a call transcript.
type Entry struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Recorder accumulates transcript entries for one call.
type Recorder struct {
	mu      sync.Mutex
	callID  string
	entries []Entry
	now     func() time.Time
}

func NewRecorder(callID string) *Recorder {
	return &Recorder{callID: callID, now: time.Now}
}

func (r *Recorder) CallID() string { return r.callID }

func (r *Recorder) Add(speaker, text string) {
	if text == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{
		Speaker:   speaker,
		Text:      text,
		Timestamp: r.now().UTC().Format(time.RFC3339),
	})
}

// Entries returns a copy of the recorded transcript in call order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
