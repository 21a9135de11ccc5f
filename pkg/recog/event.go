package recog

// EventType discriminates recognition events on the adapter stream.
type EventType string

const (
	// EventInterim carries a provisional transcript for the utterance so far.
	EventInterim EventType = "interim"
	// EventFinal carries the settled transcript for an utterance.
	EventFinal EventType = "final"
	// EventError carries a platform error code. At most one per capture.
	EventError EventType = "error"
	// EventEnded signals that capture stopped, whether naturally, by Stop,
	// or after an error. Exactly one per capture.
	EventEnded EventType = "ended"
)

// Event is one recognition result delivered on the adapter's stream.
type Event struct {
	Type       EventType
	Transcript string
	Code       string
}
