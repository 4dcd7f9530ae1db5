package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/taskforge/task-api/internal/api/metrics"
	"github.com/taskforge/task-api/internal/core/domain"
)

type memoryAuditRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *memoryAuditRepo) InsertAudit(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *memoryAuditRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEvent(nil), r.events...)
}

func TestAuditDispatcher_PersistsInOrderPerIdentity(t *testing.T) {
	repo := &memoryAuditRepo{}
	d := NewAuditDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	kinds := []domain.AuditKind{domain.AuditLoginFailed, domain.AuditLoginFailed, domain.AuditLoginSucceeded}
	for _, k := range kinds {
		d.Record(domain.AuditEvent{Kind: k, IdentityID: "alice"})
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(repo.snapshot()) < len(kinds) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	d.Wait()

	got := repo.snapshot()
	if len(got) != len(kinds) {
		t.Fatalf("expected %d events, got %d", len(kinds), len(got))
	}
	for i, k := range kinds {
		if got[i].Kind != k {
			t.Errorf("event %d: expected %s, got %s", i, k, got[i].Kind)
		}
		if got[i].At.IsZero() {
			t.Errorf("event %d: timestamp not set", i)
		}
	}
}

func TestAuditDispatcher_DrainsOnShutdown(t *testing.T) {
	repo := &memoryAuditRepo{}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	// Enqueue before the workers run so everything is still buffered.
	for i := 0; i < 10; i++ {
		d.Record(domain.AuditEvent{Kind: domain.AuditSignup, Email: "a@x.com"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if n := len(repo.snapshot()); n != 10 {
		t.Fatalf("expected 10 drained events, got %d", n)
	}
}

func TestAuditDispatcher_DropsWhenFull(t *testing.T) {
	repo := &memoryAuditRepo{}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	for i := 0; i < channelBuffer+5; i++ {
		d.Record(domain.AuditEvent{Kind: domain.AuditLoginFailed, Email: "a@x.com"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected full buffer of %d, got %d", channelBuffer, got)
	}
}

func TestAuditDispatcher_QueueDepthMatchesBuffer(t *testing.T) {
	repo := &memoryAuditRepo{}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())
	depth := metrics.AuditQueueDepth.WithLabelValues("0")
	before := testutil.ToFloat64(depth)

	for i := 0; i < channelBuffer+5; i++ {
		d.Record(domain.AuditEvent{Kind: domain.AuditLoginFailed, Email: "a@x.com"})
	}
	if got := testutil.ToFloat64(depth) - before; got != channelBuffer {
		t.Fatalf("expected depth %d after drops, got %v", channelBuffer, got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := testutil.ToFloat64(depth) - before; got != 0 {
		t.Fatalf("expected depth back to baseline, got %v", got)
	}
	if got := len(repo.snapshot()); got != channelBuffer {
		t.Fatalf("expected %d persisted events, got %d", channelBuffer, got)
	}
}

func TestAuditDispatcher_ShardIndexStable(t *testing.T) {
	d := NewAuditDispatcher(8, &memoryAuditRepo{}, zerolog.Nop())
	a := d.shardIndex("alice")
	for i := 0; i < 5; i++ {
		if d.shardIndex("alice") != a {
			t.Fatal("shard index must be deterministic")
		}
	}
	if a < 0 || a >= 8 {
		t.Fatalf("index out of range: %d", a)
	}
}
