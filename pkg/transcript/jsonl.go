package transcript

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/callsimlabs/callsim/pkg/redact"
)

// WriteJSONL persists a recorder's transcript as one JSON object per line
// under dir, named after the call id. Returns the written path. Entry text
// passes through redaction; the in-memory transcript stays verbatim.
func WriteJSONL(dir string, rec *Recorder) (string, error) {
	if dir == "" {
		return "", errors.New("artifacts dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, rec.CallID()+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	for _, entry := range rec.Entries() {
		entry.Text = redact.Text(entry.Text)
		if err := enc.Encode(entry); err != nil {
			return "", err
		}
	}
	return path, nil
}

// PurgeArtifacts removes transcript files in dir older than maxAge. Returns deleted count.
func PurgeArtifacts(dir string, maxAge time.Duration) (int, error) {
	if dir == "" || maxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	var removed int
	var errs error
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		removed++
	}
	return removed, errs
}
