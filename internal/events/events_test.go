package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

func TestInMemoryRepository_ListRecent(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	for _, q := range []string{"biryani", "pasta", "dosa"} {
		if err := repo.Save(ctx, &SearchEvent{Query: q, Outcome: OutcomeResults}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Query != "dosa" || got[1].Query != "pasta" {
		t.Errorf("expected newest first, got %s, %s", got[0].Query, got[1].Query)
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Errorf("expected id and timestamp to be set")
	}
}

func TestInMemoryRepository_ListRecentNonPositiveLimit(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	if err := repo.Save(ctx, &SearchEvent{Query: "idli", Outcome: OutcomeResults}); err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, limit := range []int{0, -1, -50} {
		got, err := repo.ListRecent(ctx, limit)
		if err != nil {
			t.Fatalf("limit %d: unexpected error: %v", limit, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("limit %d: expected empty slice, got %+v", limit, got)
		}
	}
}

func TestRepositoryPublisher(t *testing.T) {
	repo := NewInMemoryRepository()
	pub := NewRepositoryPublisher(repo)

	if err := pub.Publish(context.Background(), SearchEvent{Query: "momos", Outcome: OutcomeFailed}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got, _ := repo.ListRecent(context.Background(), 10)
	if len(got) != 1 || got[0].Outcome != OutcomeFailed {
		t.Fatalf("unexpected events %+v", got)
	}
}

// fakeReader replays a fixed set of messages, then blocks until ctx is done.
type fakeReader struct {
	messages []kafka.Message
	closed   bool
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.messages) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := f.messages[0]
	f.messages = f.messages[1:]
	return m, nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestConsumer_Run(t *testing.T) {
	good, _ := json.Marshal(SearchEvent{ID: "e-1", Query: "thali", Outcome: OutcomeResults, ResultCount: 3})

	reader := &fakeReader{messages: []kafka.Message{
		{Value: []byte("not json"), Offset: 1},
		{Value: good, Offset: 2},
	}}
	repo := NewInMemoryRepository()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := NewConsumer(reader, repo).Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := repo.ListRecent(context.Background(), 10)
	if len(got) != 1 || got[0].ID != "e-1" || got[0].ResultCount != 3 {
		t.Fatalf("unexpected stored events %+v", got)
	}
	if !reader.closed {
		t.Error("expected reader to be closed")
	}
}
