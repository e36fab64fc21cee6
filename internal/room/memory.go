// internal/room/memory.go
package room

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultIdleWindow is how long a room may go without any access before the
// janitor may evict it.
const DefaultIdleWindow = 2 * time.Hour

// MemoryRepository is the in-process fallback store used when no redis
// address is configured. A background janitor evicts rooms whose last access
// is older than the idle window, through the same Delete path as an explicit
// close.
type MemoryRepository struct {
	mu      sync.RWMutex
	rooms   map[string]*memoryEntry
	players map[string]string // playerID -> room code

	idle time.Duration
	log  *logrus.Logger
	done chan struct{}
	once sync.Once
}

type memoryEntry struct {
	room       *Room
	lastAccess time.Time
}

// NewMemoryRepository returns a running repository. idle <= 0 selects
// DefaultIdleWindow. Call Close to stop the janitor.
func NewMemoryRepository(idle time.Duration, logger *logrus.Logger) *MemoryRepository {
	if idle <= 0 {
		idle = DefaultIdleWindow
	}
	if logger == nil {
		logger = logrus.New()
	}
	s := &MemoryRepository{
		rooms:   make(map[string]*memoryEntry),
		players: make(map[string]string),
		idle:    idle,
		log:     logger,
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Close stops the eviction janitor. Idempotent.
func (s *MemoryRepository) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryRepository) janitor() {
	interval := s.idle / 4
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.evictIdle()
		}
	}
}

func (s *MemoryRepository) evictIdle() {
	cutoff := time.Now().Add(-s.idle)

	s.mu.RLock()
	var stale []string
	for code, e := range s.rooms {
		if e.lastAccess.Before(cutoff) {
			stale = append(stale, code)
		}
	}
	s.mu.RUnlock()

	for _, code := range stale {
		if err := s.Delete(context.Background(), code); err != nil {
			continue
		}
		s.log.WithField("code", code).Info("evicted idle room")
	}
}

func (s *MemoryRepository) Create(_ context.Context, rm *Room) error {
	code := strings.ToUpper(rm.Code)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[code]; exists {
		return ErrDuplicateCode
	}
	rm.Version = 1
	s.rooms[code] = &memoryEntry{room: rm.Clone(), lastAccess: time.Now()}
	return nil
}

func (s *MemoryRepository) Get(_ context.Context, code string) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastAccess = time.Now()
	return e.room.Clone(), nil
}

func (s *MemoryRepository) Put(_ context.Context, rm *Room) error {
	code := strings.ToUpper(rm.Code)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rooms[code]
	if !ok {
		return ErrNotFound
	}
	if e.room.Version != rm.Version {
		return ErrConflict
	}
	rm.Version++
	e.room = rm.Clone()
	e.lastAccess = time.Now()
	return nil
}

func (s *MemoryRepository) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, strings.ToUpper(code))
	return nil
}

func (s *MemoryRepository) ListPublicCodes(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var codes []string
	for code, e := range s.rooms {
		if e.room.IsPublic && e.room.CurrentRound == nil {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func (s *MemoryRepository) BindPlayer(_ context.Context, playerID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[playerID] = strings.ToUpper(code)
	return nil
}

func (s *MemoryRepository) PlayerRoom(_ context.Context, playerID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.players[playerID]
	if !ok {
		return "", ErrNotFound
	}
	return code, nil
}

func (s *MemoryRepository) UnbindPlayer(_ context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, playerID)
	return nil
}
