package policy

import (
	"context"
	"log/slog"
	"time"
)

// Event describes one call to Generator.Generate
type Event struct {
	Input    Input
	Result   *Result
	Err      error
	Duration time.Duration
}

// Observer is notified after every generation. It must not modify the
// event's input or result.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// SlogObserver logs generations to a structured logger
type SlogObserver struct {
	Logger *slog.Logger
}

// NewSlogObserver returns an observer logging to logger, or to the default
// logger when nil
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{Logger: logger}
}

// Observe logs the input at debug level, the statement at info level and
// each warning at warn level. Failures are logged at error level.
func (o *SlogObserver) Observe(e Event) {
	ctx := context.Background()
	attrs := []any{"policy", e.Input.Name, "table", e.Input.Table}

	o.Logger.Log(ctx, slog.LevelDebug, "generating policy",
		append(attrs,
			"type", string(e.Input.Type),
			"operations", e.Input.Operations.String(),
			"tables", len(e.Input.Tables),
		)...)

	if e.Err != nil {
		o.Logger.Log(ctx, slog.LevelError, "policy generation failed", append(attrs, "error", e.Err)...)
		return
	}

	for _, w := range e.Result.Warnings {
		o.Logger.Log(ctx, slog.LevelWarn, "policy generated with warning", append(attrs, "warning", w.Error())...)
	}
	o.Logger.Log(ctx, slog.LevelInfo, "generated policy", append(attrs, "sql", e.Result.SQL, "duration", e.Duration)...)
}
