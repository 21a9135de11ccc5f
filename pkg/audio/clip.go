package audio

import (
	"sync"
	"sync/atomic"
)

var liveClips atomic.Int64

// Clip is a short-lived handle to an in-memory audio buffer. The owner that
// plays the clip is responsible for calling Release once playback is done,
// on success and failure paths alike.
type Clip struct {
	mu       sync.Mutex
	data     []byte
	mime     string
	released bool
}

func NewClip(data []byte, mime string) *Clip {
	liveClips.Add(1)
	return &Clip{data: data, mime: mime}
}

func (c *Clip) Data() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.data...)
}

// RawPayload returns the underlying buffer without copying. Invalid after Release.
func (c *Clip) RawPayload() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

func (c *Clip) MIME() string { return c.mime }

func (c *Clip) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Release frees the buffer. Safe to call more than once.
func (c *Clip) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	c.data = nil
	liveClips.Add(-1)
}

func (c *Clip) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// LiveClips reports the number of un-released clips. Tests use it to assert
// that playback paths do not leak handles.
func LiveClips() int64 {
	return liveClips.Load()
}
