package security

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"evote/pkg/platform/audit"
	"evote/pkg/requestcontext"
)

// Store persists security events.
type Store interface {
	AppendSecurity(ctx context.Context, events []audit.SecurityEvent) error
}

// Publisher buffers security events and persists them in the background.
// Report never blocks the request path: when the store is slow the oldest
// events are evicted, counted and logged.
type Publisher struct {
	store         Store
	buffer        *RingBuffer[audit.SecurityEvent]
	logger        *slog.Logger
	batchSize     int
	flushInterval time.Duration
}

type Option func(*Publisher)

func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) { p.logger = l }
}

func WithBufferSize(n int) Option {
	return func(p *Publisher) { p.buffer = NewRingBuffer[audit.SecurityEvent](n) }
}

func WithFlushInterval(d time.Duration) Option {
	return func(p *Publisher) { p.flushInterval = d }
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:         store,
		buffer:        NewRingBuffer[audit.SecurityEvent](10000),
		logger:        slog.Default(),
		batchSize:     100,
		flushInterval: time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report enriches ev from the request context and queues it.
func (p *Publisher) Report(ctx context.Context, ev audit.SecurityEvent) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = requestcontext.Now(ctx)
	}
	if ev.Severity == "" {
		ev.Severity = audit.SeverityFor(ev.Action)
	}
	if ev.IP == "" {
		ev.IP = requestcontext.ClientIP(ctx)
	}
	if ev.Client == "" {
		ev.Client = requestcontext.ClientLabel(ctx)
	}
	if ev.RequestID == "" {
		ev.RequestID = requestcontext.RequestID(ctx)
	}
	if ev.ActorID == "" {
		ev.ActorID = requestcontext.Actor(ctx)
	}

	eventsReported.WithLabelValues(string(ev.Action)).Inc()
	level := slog.LevelWarn
	if ev.Severity == audit.SeverityCritical {
		level = slog.LevelError
	}
	p.logger.Log(ctx, level, "security event",
		"action", ev.Action,
		"reason", ev.Reason,
		"election_id", ev.ElectionID,
		"severity", ev.Severity,
		"request_id", ev.RequestID,
	)

	if p.buffer.Enqueue(ev) {
		eventsDropped.Inc()
	}
	bufferDepth.Set(float64(p.buffer.Len()))
}

// Run persists buffered events until ctx is cancelled, then drains what is left.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// Drain with a fresh context so shutdown does not lose the tail.
			drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			p.Flush(drainCtx)
			cancel()
			return ctx.Err()
		case <-ticker.C:
			p.Flush(ctx)
		}
	}
}

// Flush persists everything currently buffered. Failed batches are logged and dropped.
func (p *Publisher) Flush(ctx context.Context) {
	for {
		batch := p.buffer.DequeueBatch(p.batchSize)
		if len(batch) == 0 {
			bufferDepth.Set(0)
			return
		}
		if err := p.store.AppendSecurity(ctx, batch); err != nil {
			persistFailures.Inc()
			p.logger.ErrorContext(ctx, "failed to persist security events",
				"error", err,
				"count", len(batch),
			)
			return
		}
	}
}

// Pending returns the number of buffered events.
func (p *Publisher) Pending() int {
	return p.buffer.Len()
}
