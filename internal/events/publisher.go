package events

import "context"

// Publisher hands a search event to whatever records it.
type Publisher interface {
	Publish(ctx context.Context, e SearchEvent) error
}

// RepositoryPublisher writes events straight to a repository. Used when no
// broker is configured.
type RepositoryPublisher struct {
	repo Repository
}

func NewRepositoryPublisher(repo Repository) *RepositoryPublisher {
	return &RepositoryPublisher{repo: repo}
}

func (p *RepositoryPublisher) Publish(ctx context.Context, e SearchEvent) error {
	return p.repo.Save(ctx, &e)
}
