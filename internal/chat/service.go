package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zomaksho/internal/events"
	"zomaksho/internal/search"

	log "github.com/sirupsen/logrus"
)

var ErrEmptyMessage = errors.New("message must not be empty")

// Searcher is the part of the search service the chat needs.
type Searcher interface {
	Lookup(ctx context.Context, req search.Request) ([]search.FoodItemSuggestion, error)
}

type Service struct {
	repo     Repository
	searcher Searcher
}

func NewService(repo Repository, searcher Searcher) *Service {
	return &Service{repo: repo, searcher: searcher}
}

// History returns the conversation, starting it with the greeting when the
// session has none yet.
func (s *Service) History(ctx context.Context, sessionID string) ([]Message, error) {
	msgs, err := s.repo.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if len(msgs) > 0 {
		return msgs, nil
	}

	greeting := newMessage(Greeting, true)
	if err := s.repo.Append(ctx, sessionID, greeting); err != nil {
		return nil, fmt.Errorf("seed conversation: %w", err)
	}
	return []Message{greeting}, nil
}

// SendMessage appends the user's text, runs one food search with it and
// appends the bot's reply. It returns both new messages in order.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string) ([]Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	if _, err := s.History(ctx, sessionID); err != nil {
		return nil, err
	}

	user := newMessage(text, false)
	if err := s.repo.Append(ctx, sessionID, user); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	items, err := s.searcher.Lookup(ctx, search.Request{
		SessionID: sessionID,
		Surface:   events.SurfaceChat,
		Query:     text,
	})

	var bot Message
	switch {
	case err != nil:
		log.WithError(err).WithField("session", sessionID).Warn("chat search failed")
		bot = newMessage(failureText, true)
	case len(items) == 0:
		bot = newMessage(noMatchText, true)
	default:
		bot = newMessage(fmt.Sprintf(foundTemplate, len(items)), true)
		bot.FoodItems = items
	}

	if err := s.repo.Append(ctx, sessionID, bot); err != nil {
		return nil, fmt.Errorf("append reply: %w", err)
	}
	return []Message{user, bot}, nil
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Clear(ctx, sessionID)
}

// ClearSession drops the conversation of a session that has ended.
func (s *Service) ClearSession(sessionID string) {
	if err := s.Clear(context.Background(), sessionID); err != nil {
		log.WithError(err).WithField("session", sessionID).Warn("conversation not cleared")
	}
}
