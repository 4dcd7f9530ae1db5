package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/taskforge/task-api/internal/api/metrics"
	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// AuditDispatcher writes audit events in the background. Events are sharded
// by identity (or email when the identity is unknown) so that one subject's
// events are written in the order they were recorded.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log.With().Str("component", "audit").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled after
// flushing whatever is still buffered; Wait blocks until they have.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *AuditDispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues an event without blocking. When the worker's buffer is
// full the event is dropped and counted.
func (d *AuditDispatcher) Record(event domain.AuditEvent) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	idx := d.shardIndex(shardKey(event))
	// Counted before the send so a fast worker never takes the gauge below zero.
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case d.workers[idx] <- event:
	default:
		depth.Dec()
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("kind", string(event.Kind)).Int("worker_id", idx).Msg("audit queue full, event dropped")
	}
}

func shardKey(e domain.AuditEvent) string {
	if e.IdentityID != "" {
		return e.IdentityID
	}
	return e.Email
}

// shardIndex maps a key deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch, depth)
			return
		case event := <-ch:
			depth.Dec()
			d.write(ctx, id, event)
		}
	}
}

// drain persists buffered events with a fresh, bounded context.
func (d *AuditDispatcher) drain(id int, ch <-chan domain.AuditEvent, depth prometheus.Gauge) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case event := <-ch:
			depth.Dec()
			d.write(ctx, id, event)
		default:
			return
		}
	}
}

func (d *AuditDispatcher) write(ctx context.Context, id int, event domain.AuditEvent) {
	start := time.Now()
	err := d.repo.InsertAudit(ctx, &event)
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		d.log.Error().Err(err).
			Str("kind", string(event.Kind)).
			Int("worker_id", id).
			Msg("audit write failed")
	}
}
