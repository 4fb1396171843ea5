// Package audiostore holds generated audio until a client retrieves it
// through the proxy endpoint.
package audiostore

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/celeste-ai/gateway/internal/metrics"
)

// ErrNotFound is returned for ids that were never stored, were evicted or
// have expired.
var ErrNotFound = errors.New("audio not found")

// ErrRejected is returned for a clip larger than the whole store.
var ErrRejected = errors.New("audio clip rejected by store")

const (
	DefaultTTL      = time.Hour
	DefaultMaxBytes = 256 << 20

	// maxClips caps the entry count independently of the byte budget.
	maxClips = 1 << 16
)

// Clip is one stored audio payload.
type Clip struct {
	Data       []byte
	Format     string
	SampleRate int
}

// Config sizes the store.
type Config struct {
	TTL      time.Duration
	MaxBytes int64
}

type entry struct {
	clip      Clip
	expiresAt time.Time
}

// Store is a concurrency-safe id -> clip map with TTL expiry and a total
// byte budget. When the budget is full the least recently used clips are
// evicted, so a clip that fits the budget is always accepted.
type Store struct {
	mu       sync.Mutex
	cache    *lru.Cache
	ttl      time.Duration
	maxBytes int64
	bytes    int64

	stop chan struct{}
	once sync.Once
}

// New creates a Store. Call Close at shutdown.
func New(cfg Config) (*Store, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}

	s := &Store{ttl: cfg.TTL, maxBytes: cfg.MaxBytes, stop: make(chan struct{})}
	cache, err := lru.NewWithEvict(maxClips, s.evicted)
	if err != nil {
		return nil, fmt.Errorf("create audio cache: %w", err)
	}
	s.cache = cache

	go s.sweep(min(cfg.TTL, time.Minute))
	return s, nil
}

// evicted keeps the byte count in step with the cache. It runs inside
// cache calls, all of which are made with s.mu held.
func (s *Store) evicted(_, value interface{}) {
	s.bytes -= cost(value.(*entry).clip)
}

func cost(c Clip) int64 {
	return int64(len(c.Data))
}

// Put stores clip under a fresh random id, evicting the least recently
// used clips until it fits.
func (s *Store) Put(clip Clip) (string, error) {
	size := cost(clip)
	if size > s.maxBytes {
		return "", ErrRejected
	}
	id := uuid.NewString()

	s.mu.Lock()
	for s.bytes+size > s.maxBytes {
		if _, _, ok := s.cache.RemoveOldest(); !ok {
			break
		}
	}
	s.cache.Add(id, &entry{clip: clip, expiresAt: time.Now().Add(s.ttl)})
	s.bytes += size
	s.mu.Unlock()

	metrics.RecordAudioStored()
	return id, nil
}

// Get returns the clip stored under id.
func (s *Store) Get(id string) (Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(id)
	if !ok {
		return Clip{}, ErrNotFound
	}
	e := v.(*entry)
	if time.Now().After(e.expiresAt) {
		s.cache.Remove(id)
		return Clip{}, ErrNotFound
	}
	return e.clip, nil
}

// Bytes reports the payload bytes currently held.
func (s *Store) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// sweep drops expired clips so their bytes are released without a Get.
func (s *Store) sweep(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-t.C:
			s.mu.Lock()
			for _, k := range s.cache.Keys() {
				if v, ok := s.cache.Peek(k); ok && now.After(v.(*entry).expiresAt) {
					s.cache.Remove(k)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Close stops the expiry sweeper.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}
