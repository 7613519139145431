package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"casino-minigames/internal/models"
)

// MemoryStore is the Store used when no Redis is configured. Everything is
// lost on restart.
type MemoryStore struct {
	mu        sync.Mutex
	now       func() time.Time
	windows   map[string]*rateWindow
	nextSweep time.Time
	history   map[string][]*models.RoundRecord
}

type rateWindow struct {
	count   int
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:     time.Now,
		windows: make(map[string]*rateWindow),
		history: make(map[string][]*models.RoundRecord),
	}
}

func (s *MemoryStore) CheckRateLimit(_ context.Context, subject, action string, limit int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subject + ":" + action
	now := s.now()
	if !now.Before(s.nextSweep) {
		for k, w := range s.windows {
			if !now.Before(w.expires) {
				delete(s.windows, k)
			}
		}
		s.nextSweep = now.Add(window)
	}

	w, ok := s.windows[key]
	if !ok || !now.Before(w.expires) {
		w = &rateWindow{expires: now.Add(window)}
		s.windows[key] = w
	}
	w.count++

	return w.count <= limit, nil
}

func (s *MemoryStore) ClearRateLimit(_ context.Context, subject, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, subject+":"+action)
	return nil
}

func (s *MemoryStore) RecordRound(_ context.Context, rec *models.RoundRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := append(s.history[rec.UserID], rec)
	sort.SliceStable(h, func(i, j int) bool {
		return h[i].CreatedAt.Before(h[j].CreatedAt)
	})
	if len(h) > MaxHistory {
		h = h[len(h)-MaxHistory:]
	}
	s.history[rec.UserID] = h
	return nil
}

// GetRoundHistory returns the newest records first.
func (s *MemoryStore) GetRoundHistory(_ context.Context, userID string, limit int64) ([]*models.RoundRecord, error) {
	if limit <= 0 || limit > MaxHistory {
		limit = 50
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.history[userID]
	out := make([]*models.RoundRecord, 0, limit)
	for i := len(h) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, h[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
