// Package observability provides lightweight execution telemetry for
// project-mutation and engine-run use cases, in the style of the reference
// service layer this project grew out of: a small observer interface with a
// slog-backed implementation and a no-op default.
package observability

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Event captures one observed use case execution.
type Event struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// Observer receives use-case execution events.
type Observer interface {
	Observe(ctx context.Context, event Event)
}

// NoopObserver ignores all events. It is the zero-value-safe default.
type NoopObserver struct{}

func (NoopObserver) Observe(context.Context, Event) {}

// slowThreshold marks an otherwise-successful command as worth a
// warning-level log line, since a hung CLI invocation is silent without one.
const slowThreshold = 2 * time.Second

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes use-case events as structured log lines to w.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) Observe(ctx context.Context, event Event) {
	attrs := []slog.Attr{
		slog.String("use_case", event.Name),
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success),
	}
	if len(event.Fields) > 0 {
		group := make([]any, 0, len(event.Fields)*2)
		for k, v := range event.Fields {
			group = append(group, k, v)
		}
		attrs = append(attrs, slog.Group("fields", group...))
	}

	switch {
	case event.Err != nil:
		attrs = append(attrs, slog.String("error", event.Err.Error()))
		o.logger.LogAttrs(ctx, slog.LevelError, "dagr_use_case", attrs...)
	case event.Duration >= slowThreshold:
		o.logger.LogAttrs(ctx, slog.LevelWarn, "dagr_use_case", attrs...)
	default:
		o.logger.LogAttrs(ctx, slog.LevelInfo, "dagr_use_case", attrs...)
	}
}

// Track is a small helper for wrapping a use case in an observed span: call
// it with defer to record duration, success, and any returned error.
func Track(ctx context.Context, obs Observer, name string, fields map[string]any, errp *error) func() {
	start := time.Now()
	return func() {
		obs.Observe(ctx, Event{
			Name:      name,
			Duration:  time.Since(start),
			Success:   *errp == nil,
			Err:       *errp,
			Fields:    fields,
			StartedAt: start,
		})
	}
}
