package search

import "fmt"

// SystemPrompt is the assistant persona sent with every search.
const SystemPrompt = "You are a food recommendation assistant."

const foodSearchTemplate = `Return a list of food items based on this user prompt: "%s". Format the JSON as an array of objects like this:

[
  {
    "name": "Gulab Jamun",
    "price": 90,
    "description": "Sweet deep-fried dumplings soaked in sugar syrup",
    "isVeg": true,
    "restaurant": "Sweet House"
  }
]`

// BuildFoodSearchPrompt embeds the query verbatim in the instruction template.
func BuildFoodSearchPrompt(query string) string {
	return fmt.Sprintf(foodSearchTemplate, query)
}
