package search

import "time"

// FoodItemSuggestion is one dish the model suggested. Fields are whatever the
// JSON decode produced; nothing is checked beyond that.
type FoodItemSuggestion struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	IsVeg       bool    `json:"isVeg"`
	Restaurant  string  `json:"restaurant"`
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusResults Status = "results"
	StatusError   Status = "error"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

// Notification is the one-line toast shown after a search settles.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// State is what the search surface of one session currently shows.
type State struct {
	Status       Status               `json:"status"`
	RequestID    uint64               `json:"request_id"`
	Query        string               `json:"query,omitempty"`
	Items        []FoodItemSuggestion `json:"items"`
	Notification *Notification        `json:"notification,omitempty"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Outcome is the result of one submission. Stale is set when a newer
// submission from the same session was issued before this one settled; the
// session state was then left untouched.
type Outcome struct {
	RequestID    uint64               `json:"request_id"`
	Status       Status               `json:"status"`
	Items        []FoodItemSuggestion `json:"items"`
	Notification *Notification        `json:"notification"`
	Stale        bool                 `json:"stale"`
}
