package audio

import "testing"

func TestClipReleaseIsIdempotent(t *testing.T) {
	base := LiveClips()
	c := NewClip([]byte{1, 2, 3}, "audio/mpeg")
	if LiveClips() != base+1 {
		t.Fatalf("expected live count %d, got %d", base+1, LiveClips())
	}
	c.Release()
	c.Release()
	if LiveClips() != base {
		t.Fatalf("expected live count back to %d, got %d", base, LiveClips())
	}
	if !c.Released() {
		t.Fatalf("expected released clip")
	}
	if c.Len() != 0 {
		t.Fatalf("expected buffer freed after release")
	}
}

func TestClipDataCopies(t *testing.T) {
	c := NewClip([]byte{1, 2, 3}, "audio/mpeg")
	defer c.Release()
	d := c.Data()
	d[0] = 9
	if c.RawPayload()[0] != 1 {
		t.Fatalf("expected Data to return a copy")
	}
}
