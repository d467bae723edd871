package repository

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/chessdna/internal/domain/types"
	"github.com/okian/chessdna/pkg/metrics"
)

// MemoryStore is an in-memory ReportStore. Writes rebuild an immutable
// newest-first snapshot so List never contends with Save.
type MemoryStore struct {
	mu         sync.Mutex
	bySubject  map[string]*list.Element
	order      *list.List // front = oldest
	maxReports int

	snapshot atomic.Pointer[[]types.Report]
}

// NewMemoryStore constructs a store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		bySubject:  make(map[string]*list.Element),
		order:      list.New(),
		maxReports: DefaultMaxReports,
	}
	for _, opt := range opts {
		opt(s)
	}
	empty := []types.Report{}
	s.snapshot.Store(&empty)
	return s
}

// Save implements ReportStore.
func (s *MemoryStore) Save(_ context.Context, r types.Report) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("save", float64(time.Since(start).Microseconds())/1000)
	}()

	if strings.TrimSpace(r.Subject) == "" {
		metrics.RecordErrorByComponent("repository", "invalid_report")
		return ErrInvalidReport
	}

	s.mu.Lock()
	if e, ok := s.bySubject[r.Subject]; ok {
		s.order.Remove(e)
	}
	s.bySubject[r.Subject] = s.order.PushBack(r)
	for s.maxReports > 0 && s.order.Len() > s.maxReports {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.bySubject, oldest.Value.(types.Report).Subject)
	}
	s.publishSnapshotLocked()
	count := s.order.Len()
	s.mu.Unlock()

	metrics.UpdateReportCount(count)
	return nil
}

// Get implements ReportStore.
func (s *MemoryStore) Get(_ context.Context, subject string) (types.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLatency("get", float64(time.Since(start).Microseconds())/1000)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.bySubject[subject]
	if !ok {
		return types.Report{}, ErrNotFound
	}
	return e.Value.(types.Report), nil
}

// List implements ReportStore.
func (s *MemoryStore) List(_ context.Context, limit int) ([]types.Report, error) {
	if limit < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	snap := *s.snapshot.Load()
	if limit > len(snap) {
		limit = len(snap)
	}
	out := make([]types.Report, limit)
	copy(out, snap[:limit])
	return out, nil
}

// Count implements ReportStore.
func (s *MemoryStore) Count(_ context.Context) int {
	return len(*s.snapshot.Load())
}

// publishSnapshotLocked rebuilds the newest-first view. s.mu must be held.
func (s *MemoryStore) publishSnapshotLocked() {
	snap := make([]types.Report, 0, s.order.Len())
	for e := s.order.Back(); e != nil; e = e.Prev() {
		snap = append(snap, e.Value.(types.Report))
	}
	s.snapshot.Store(&snap)
}
