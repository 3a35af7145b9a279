package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink persists audit events.
type Sink interface {
	Write(ctx context.Context, event Event) error
	Close() error
}

// LogSink writes each event as one JSON line.
type LogSink struct {
	handler slog.Handler
	closer  io.Closer
}

// NewLogSink writes events to w. If w is an io.Closer it is closed by Close.
func NewLogSink(w io.Writer) *LogSink {
	sink := &LogSink{handler: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})}
	if c, ok := w.(io.Closer); ok && w != os.Stdout && w != os.Stderr {
		sink.closer = c
	}
	return sink
}

// FileOptions configures the rotated audit file.
type FileOptions struct {
	// Path of the audit file. Empty writes events to stdout only.
	Path string
	// Stdout mirrors file output to stdout.
	Stdout     bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewSink writes to stdout when opts.Path is empty and to a size-rotated
// file otherwise.
func NewSink(opts FileOptions) Sink {
	return newSink(opts, os.Stdout)
}

func newSink(opts FileOptions, stdout io.Writer) Sink {
	if opts.Path == "" {
		return NewLogSink(stdout)
	}
	file := NewLogSink(&lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	})
	if !opts.Stdout {
		return file
	}
	return MultiSink{file, NewLogSink(stdout)}
}

// Write implements Sink.
func (s *LogSink) Write(ctx context.Context, event Event) error {
	requestID := event.RequestID
	if requestID == "" {
		requestID = "-"
	}
	attrs := []slog.Attr{
		slog.String("action", string(event.Kind)),
		slog.Time("timestamp", event.Time),
		slog.String("user", event.Actor),
		slog.String("method", event.Method),
		slog.String("path", event.Path),
		slog.String("request_id", requestID),
		slog.Int("status", event.Status),
	}
	switch event.Kind {
	case TaskListed:
		attrs = append(attrs, slog.Int("count", event.Count))
	case TaskRetrieved:
		attrs = append(attrs, slog.String("task_id", event.TaskID.String()))
	case TaskCompleted:
		attrs = append(attrs,
			slog.String("task_id", event.TaskID.String()),
			slog.String("title", event.Title),
			slog.Bool("already_completed", event.AlreadyCompleted))
	default:
		if event.TaskID != uuid.Nil {
			attrs = append(attrs, slog.String("task_id", event.TaskID.String()))
		}
		if event.Title != "" {
			attrs = append(attrs, slog.String("title", event.Title))
		}
	}

	// A zero record time keeps the handler from adding its own; the event
	// carries a timestamp.
	record := slog.NewRecord(time.Time{}, slog.LevelInfo, "audit", 0)
	record.AddAttrs(attrs...)
	if err := s.handler.Handle(ctx, record); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

// Close closes the underlying file, if any.
func (s *LogSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// MultiSink fans each event out to several sinks. Every sink sees every
// event; the first error is returned.
type MultiSink []Sink

// Write implements Sink.
func (m MultiSink) Write(ctx context.Context, event Event) error {
	var firstErr error
	for _, s := range m {
		if err := s.Write(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close implements Sink.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
