package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"zomaksho/internal/events"
	"zomaksho/internal/llm"

	log "github.com/sirupsen/logrus"
)

var (
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrMalformedReply means the gateway answered but the text did not
	// decode as a food item array.
	ErrMalformedReply = errors.New("model reply was not a food item array")
)

const failureMessage = "Something went wrong while searching"

// Request is one lookup from either surface.
type Request struct {
	SessionID string
	Surface   events.Surface
	Query     string
}

type Service struct {
	client    llm.Client
	model     string
	parser    Parser
	tracker   *Tracker
	publisher events.Publisher
}

func NewService(
	client llm.Client,
	model string,
	parser Parser,
	tracker *Tracker,
	publisher events.Publisher,
) *Service {
	return &Service{
		client:    client,
		model:     model,
		parser:    parser,
		tracker:   tracker,
		publisher: publisher,
	}
}

// Lookup runs the pipeline once: prompt, one gateway call, one parse.
// Blank queries are rejected before anything is sent. A malformed reply
// returns an empty slice together with ErrMalformedReply.
func (s *Service) Lookup(ctx context.Context, req Request) ([]FoodItemSuggestion, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	items, err := s.lookup(ctx, req.Query)

	event := events.SearchEvent{
		SessionID:   req.SessionID,
		Surface:     req.Surface,
		Query:       req.Query,
		ResultCount: len(items),
		Outcome:     events.OutcomeResults,
		LatencyMs:   time.Since(start).Milliseconds(),
	}
	switch {
	case errors.Is(err, ErrMalformedReply):
		event.Outcome = events.OutcomeMalformed
	case err != nil:
		event.Outcome = events.OutcomeFailed
	}
	s.record(ctx, event)

	return items, err
}

func (s *Service) lookup(ctx context.Context, query string) ([]FoodItemSuggestion, error) {
	raw, err := s.client.Complete(ctx, s.model, SystemPrompt, BuildFoodSearchPrompt(query))
	if err != nil {
		log.WithError(err).WithField("query", query).Error("LLM search failed")
		return []FoodItemSuggestion{}, fmt.Errorf("search %q: %w", query, err)
	}

	items, ok := s.parser.Parse(raw)
	if !ok {
		return items, ErrMalformedReply
	}
	return items, nil
}

func (s *Service) record(ctx context.Context, e events.SearchEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		log.WithError(err).WithField("query", e.Query).Warn("search event not recorded")
	}
}

// Search is the search bar flow: it moves the session to loading, runs the
// lookup and settles the session state unless a newer submission from the
// same session has been issued meanwhile.
func (s *Service) Search(ctx context.Context, sessionID, query string) (*Outcome, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	id := s.tracker.Begin(sessionID, query)

	items, err := s.Lookup(ctx, Request{
		SessionID: sessionID,
		Surface:   events.SurfaceSearchBar,
		Query:     query,
	})

	out := &Outcome{RequestID: id}
	if err != nil {
		out.Status = StatusError
		out.Items = []FoodItemSuggestion{}
		out.Notification = FailureNotification()
		out.Stale = !s.tracker.Fail(sessionID, id, out.Notification)
	} else {
		out.Status = StatusResults
		out.Items = items
		out.Notification = FoundNotification(len(items), query)
		out.Stale = !s.tracker.Resolve(sessionID, id, items, out.Notification)
	}

	if out.Stale {
		log.WithFields(log.Fields{
			"session": sessionID,
			"request": id,
		}).Info("discarding stale search result")
	}

	return out, nil
}

func (s *Service) State(sessionID string) State {
	return s.tracker.Get(sessionID)
}

func (s *Service) Clear(sessionID string) {
	s.tracker.Clear(sessionID)
}

// Evict drops search state of sessions idle since before.
func (s *Service) Evict(before time.Time) int {
	return s.tracker.Evict(before)
}

func FoundNotification(n int, query string) *Notification {
	return &Notification{
		Level:   LevelSuccess,
		Message: fmt.Sprintf("Found %d results for %q", n, query),
	}
}

func FailureNotification() *Notification {
	return &Notification{Level: LevelError, Message: failureMessage}
}
