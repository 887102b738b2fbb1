package chat

import "context"

// Repository stores conversations keyed by session id.
type Repository interface {
	Append(ctx context.Context, sessionID string, msgs ...Message) error
	List(ctx context.Context, sessionID string) ([]Message, error)
	Clear(ctx context.Context, sessionID string) error
}
