package chat

import (
	"time"

	"zomaksho/internal/search"

	"github.com/google/uuid"
)

const (
	Greeting = "Hello! I'm your Nugget, your personal food buddy. I can help you find dishes based on your preferences. " +
		"Try asking me something like 'I want spicy vegetarian food under ₹200' or 'suggest healthy bowl options'."

	foundTemplate = "Great! I found %d dishes that match your preferences:"
	noMatchText   = "I couldn't find any dishes matching your criteria. Here's what I suggest:"
	failureText   = "Oops! Something went wrong while fetching dish suggestions."
)

// Message is one line of a conversation. Bot replies to a search carry the
// suggested dishes.
type Message struct {
	ID        string                      `json:"id"`
	Text      string                      `json:"text"`
	IsBot     bool                        `json:"is_bot"`
	Timestamp time.Time                   `json:"timestamp"`
	FoodItems []search.FoodItemSuggestion `json:"food_items,omitempty"`
}

func newMessage(text string, isBot bool) Message {
	return Message{
		ID:        uuid.New().String(),
		Text:      text,
		IsBot:     isBot,
		Timestamp: time.Now().UTC(),
	}
}
