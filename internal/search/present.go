package search

import "fmt"

const (
	LabelVeg    = "VEG"
	LabelNonVeg = "NON-VEG"
)

// Card is the display form of one suggestion.
type Card struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	PriceLabel  string  `json:"price_label"`
	Description string  `json:"description"`
	Restaurant  string  `json:"restaurant"`
	VegLabel    string  `json:"veg_label"`
}

func NewCard(item FoodItemSuggestion) Card {
	label := LabelNonVeg
	if item.IsVeg {
		label = LabelVeg
	}
	return Card{
		Name:        item.Name,
		Price:       item.Price,
		PriceLabel:  fmt.Sprintf("₹%g", item.Price),
		Description: item.Description,
		Restaurant:  item.Restaurant,
		VegLabel:    label,
	}
}

// Cards keeps the order the model returned.
func Cards(items []FoodItemSuggestion) []Card {
	cards := make([]Card, 0, len(items))
	for _, item := range items {
		cards = append(cards, NewCard(item))
	}
	return cards
}
