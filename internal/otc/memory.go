package otc

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-process Store. Reads and writes go through sync.Map so
// steady-state lookups never take a global lock. Expired entries are dropped
// lazily on read and by a background sweeper.
type MemoryStore struct {
	entries sync.Map // string -> *entry
	now     func() time.Time

	sweepEvery time.Duration
	stop       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

type Option func(*MemoryStore)

// WithClock replaces time.Now. Tests use it to move past expiry.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// WithSweepInterval sets how often expired entries are purged. Zero disables the sweeper.
func WithSweepInterval(d time.Duration) Option {
	return func(s *MemoryStore) { s.sweepEvery = d }
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{now: time.Now, sweepEvery: time.Minute}
	for _, opt := range opts {
		opt(s)
	}
	if s.sweepEvery > 0 {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.sweepLoop()
	}
	return s
}

func (s *MemoryStore) Set(_ context.Context, key, code string, ttl time.Duration) error {
	s.entries.Store(key, &entry{code: code, expiresAt: s.now().Add(ttl)})
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	e, ok := s.load(key)
	if !ok {
		return "", false, nil
	}
	return e.code, true, nil
}

func (s *MemoryStore) Consume(_ context.Context, key, code string) (bool, error) {
	v, ok := s.entries.Load(key)
	if !ok {
		return false, nil
	}
	e := v.(*entry)
	if s.expired(e) {
		s.entries.CompareAndDelete(key, v)
		return false, nil
	}
	if e.code != code {
		return false, nil
	}
	// only the caller that removes this exact entry wins
	return s.entries.CompareAndDelete(key, v), nil
}

func (s *MemoryStore) Invalidate(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// Len counts live entries.
func (s *MemoryStore) Len() int {
	n := 0
	s.entries.Range(func(_, v any) bool {
		if !s.expired(v.(*entry)) {
			n++
		}
		return true
	})
	return n
}

// Close stops the sweeper. It is safe to call more than once.
func (s *MemoryStore) Close() {
	if s.stop == nil {
		return
	}
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func (s *MemoryStore) load(key string) (*entry, bool) {
	v, ok := s.entries.Load(key)
	if !ok {
		return nil, false
	}
	e := v.(*entry)
	if s.expired(e) {
		// a concurrent Set may have replaced it; only drop this entry
		s.entries.CompareAndDelete(key, v)
		return nil, false
	}
	return e, true
}

func (s *MemoryStore) expired(e *entry) bool {
	return !s.now().Before(e.expiresAt)
}

func (s *MemoryStore) sweepLoop() {
	defer close(s.done)
	t := time.NewTicker(s.sweepEvery)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	s.entries.Range(func(k, v any) bool {
		if s.expired(v.(*entry)) {
			s.entries.CompareAndDelete(k, v)
		}
		return true
	})
}

var _ Store = (*MemoryStore)(nil)
