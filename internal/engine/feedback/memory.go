package feedback

import (
	"context"
	"sync"

	"github.com/faix-chatbot/engine/internal/engine/model"
)

// MemoryStore is the in-process store used when Redis is not configured.
// Same window semantics as the Redis store, minus persistence.
type MemoryStore struct {
	mu     sync.RWMutex
	window int
	bad    map[model.Intent][]model.FeedbackRecord
	good   map[model.Intent][]model.FeedbackRecord
}

func NewMemoryStore(window int) *MemoryStore {
	return &MemoryStore{
		window: window,
		bad:    make(map[model.Intent][]model.FeedbackRecord),
		good:   make(map[model.Intent][]model.FeedbackRecord),
	}
}

func (s *MemoryStore) Record(_ context.Context, rec model.FeedbackRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.good
	if rec.Rating == model.RatingBad {
		bucket = s.bad
	}
	recs := append(bucket[rec.Intent], rec)
	if s.window > 0 && len(recs) > s.window {
		recs = recs[len(recs)-s.window:]
	}
	bucket[rec.Intent] = recs
	return nil
}

func (s *MemoryStore) RecentBad(_ context.Context, intent model.Intent) ([]model.FeedbackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.bad[intent]
	out := make([]model.FeedbackRecord, len(recs))
	copy(out, recs)
	return out, nil
}

var _ model.FeedbackStore = (*MemoryStore)(nil)
