// Package metrics records timing events for call turns and speech
// synthesis so session latency can be reviewed after a training run.
package metrics

import "time"

type Event struct {
	Name string
	Time time.Time
	// DurationMS is the elapsed time of the measured operation.
	DurationMS float64
	Tags       map[string]string
}

type Observer interface {
	RecordEvent(ev Event)
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(Event) {}

// Turn builds a chat-turn event from a start timestamp.
func Turn(name, callID string, started time.Time) Event {
	return Event{
		Name:       name,
		Time:       started,
		DurationMS: float64(time.Since(started)) / float64(time.Millisecond),
		Tags:       map[string]string{"call_id": callID},
	}
}
