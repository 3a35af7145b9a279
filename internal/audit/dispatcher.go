package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/taskly/tasks-api/internal/platform/logger"
)

// Metrics receives dispatcher outcomes. All methods must be safe for
// concurrent use.
type Metrics interface {
	EventWritten(kind Kind)
	EventDropped(kind Kind, reason string)
	SinkFailed(kind Kind)
}

// Drop reasons reported to Metrics.
const (
	DropReasonQueueFull = "queue_full"
	DropReasonStopped   = "stopped"
)

type nopMetrics struct{}

func (nopMetrics) EventWritten(Kind)         {}
func (nopMetrics) EventDropped(Kind, string) {}
func (nopMetrics) SinkFailed(Kind)           {}

// DispatcherConfig holds configuration options for the dispatcher.
type DispatcherConfig struct {
	// QueueSize bounds the number of pending events. Defaults to 1024.
	QueueSize int
	// WorkerCount is the number of goroutines writing to the sink. Defaults to 1.
	WorkerCount int
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueSize:   1024,
		WorkerCount: 2,
	}
}

// Dispatcher is an asynchronous Recorder. It must be started with Start and
// stopped with Stop, which drains pending events.
type Dispatcher struct {
	queue       *eventQueue
	sink        Sink
	metrics     Metrics
	workerCount int
	wg          sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once
	logger      *slog.Logger
	now         func() time.Time
}

var _ Recorder = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher writing to sink. A nil metrics disables
// metric reporting.
func NewDispatcher(sink Sink, cfg DispatcherConfig, metrics Metrics, logger *slog.Logger) *Dispatcher {
	if sink == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("sink cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	logger = logger.With(slog.String("component", "audit_dispatcher"))

	defaults := DefaultDispatcherConfig()
	if cfg.QueueSize <= 0 {
		logger.Warn("invalid audit queue size specified, using default",
			slog.Int("specified_size", cfg.QueueSize),
			slog.Int("default_size", defaults.QueueSize))
		cfg.QueueSize = defaults.QueueSize
	}
	if cfg.WorkerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			slog.Int("specified_count", cfg.WorkerCount),
			slog.Int("default_count", 1))
		cfg.WorkerCount = 1
	}

	return &Dispatcher{
		queue:       newEventQueue(cfg.QueueSize),
		sink:        sink,
		metrics:     metrics,
		workerCount: cfg.WorkerCount,
		logger:      logger,
		now:         time.Now,
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		d.logger.Info("starting audit dispatcher", slog.Int("worker_count", d.workerCount))
		for i := 0; i < d.workerCount; i++ {
			d.wg.Add(1)
			go d.worker(i)
		}
	})
}

// Stop closes the queue and waits until every queued event is written or ctx
// expires. Events recorded after Stop are dropped.
func (d *Dispatcher) Stop(ctx context.Context) error {
	var err error
	d.stopOnce.Do(func() {
		d.logger.Info("stopping audit dispatcher", slog.Int("pending", d.queue.len()))
		d.queue.close()

		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			d.logger.Info("audit dispatcher stopped")
		case <-ctx.Done():
			d.logger.Warn("audit dispatcher stop timed out",
				slog.Int("pending", d.queue.len()))
			err = ctx.Err()
		}

		if closeErr := d.sink.Close(); closeErr != nil {
			d.logger.Error("failed to close audit sink", slog.String("error", closeErr.Error()))
			err = errors.Join(err, closeErr)
		}
	})
	return err
}

// Record implements Recorder. It never blocks on the sink.
func (d *Dispatcher) Record(ctx context.Context, event Event) {
	if event.Time.IsZero() {
		event.Time = d.now().UTC()
	}

	err := d.queue.enqueue(queuedEvent{ctx: context.WithoutCancel(ctx), event: event})
	if err == nil {
		return
	}

	reason := DropReasonQueueFull
	if errors.Is(err, ErrQueueClosed) {
		reason = DropReasonStopped
	}
	d.metrics.EventDropped(event.Kind, reason)
	logger.FromContextOrDefault(ctx, d.logger).Warn("audit event dropped",
		slog.String("action", string(event.Kind)),
		slog.String("reason", reason))
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for item := range d.queue.channel() {
		if err := d.sink.Write(item.ctx, item.event); err != nil {
			d.metrics.SinkFailed(item.event.Kind)
			logger.FromContextOrDefault(item.ctx, d.logger).Error("failed to write audit event",
				slog.Int("worker_id", id),
				slog.String("action", string(item.event.Kind)),
				slog.String("error", err.Error()))
			continue
		}
		d.metrics.EventWritten(item.event.Kind)
	}
}
