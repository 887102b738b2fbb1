package chat

import (
	"context"
	"sync"
	"time"
)

type InMemoryRepository struct {
	mu            sync.RWMutex
	conversations map[string][]Message
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		conversations: make(map[string][]Message),
	}
}

func (r *InMemoryRepository) Append(ctx context.Context, sessionID string, msgs ...Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[sessionID] = append(r.conversations[sessionID], msgs...)
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context, sessionID string) ([]Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Message(nil), r.conversations[sessionID]...), nil
}

func (r *InMemoryRepository) Clear(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conversations, sessionID)
	return nil
}

// Evict drops conversations whose last message is older than before.
func (r *InMemoryRepository) Evict(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, msgs := range r.conversations {
		if len(msgs) == 0 || msgs[len(msgs)-1].Timestamp.Before(before) {
			delete(r.conversations, id)
			n++
		}
	}
	return n
}
