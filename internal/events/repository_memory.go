package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu     sync.RWMutex
	events []SearchEvent
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Save(ctx context.Context, e *SearchEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.events = append(r.events, *e)
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRepository) ListRecent(ctx context.Context, limit int) ([]SearchEvent, error) {
	if limit <= 0 {
		return []SearchEvent{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SearchEvent, 0, min(limit, len(r.events)))
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.events[i])
	}
	return out, nil
}
