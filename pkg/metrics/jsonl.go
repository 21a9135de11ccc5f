package metrics

import (
	"io"
	"log/slog"
)

// JSONLObserver appends one JSON object per event, suitable for the same
// artifacts directory that holds session transcripts.
type JSONLObserver struct {
	logger *slog.Logger
}

func NewJSONLObserver(w io.Writer) *JSONLObserver {
	if w == nil {
		w = io.Discard
	}
	return &JSONLObserver{logger: slog.New(slog.NewJSONHandler(w, nil))}
}

func (o *JSONLObserver) RecordEvent(ev Event) {
	attrs := []any{
		slog.String("name", ev.Name),
		slog.Time("time", ev.Time),
		slog.Float64("duration_ms", ev.DurationMS),
	}
	for k, v := range ev.Tags {
		attrs = append(attrs, slog.String(k, v))
	}
	o.logger.Info("metric", attrs...)
}
