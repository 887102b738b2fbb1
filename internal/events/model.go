package events

import "time"

type Outcome string

const (
	OutcomeResults   Outcome = "results"
	OutcomeMalformed Outcome = "malformed"
	OutcomeFailed    Outcome = "failed"
)

type Surface string

const (
	SurfaceSearchBar Surface = "search_bar"
	SurfaceChat      Surface = "chat"
)

// SearchEvent records one food search for analytics.
type SearchEvent struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Surface     Surface   `json:"surface"`
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	Outcome     Outcome   `json:"outcome"`
	LatencyMs   int64     `json:"latency_ms"`
	CreatedAt   time.Time `json:"created_at"`
}
