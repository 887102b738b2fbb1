package events

import "context"

// Repository persists search events.
type Repository interface {
	Save(ctx context.Context, e *SearchEvent) error

	// ListRecent returns at most limit events, newest first. A limit of
	// zero or less yields an empty slice.
	ListRecent(ctx context.Context, limit int) ([]SearchEvent, error)
}
