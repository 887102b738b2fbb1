package search

import (
	"encoding/json"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
)

var requiredKeys = []string{"name", "price", "description", "isVeg", "restaurant"}

// Parser decodes the model's reply text. With Strict set, elements that are
// not complete, well-typed records are dropped individually; otherwise the
// decode is trusted.
type Parser struct {
	Strict bool
}

// ParseSuggestions decodes raw with the default, non-strict parser.
func ParseSuggestions(raw string) ([]FoodItemSuggestion, bool) {
	return Parser{}.Parse(raw)
}

// Parse attempts exactly one JSON decode of raw as an array of records.
// On failure it logs the raw text and returns an empty slice and false.
func (p Parser) Parse(raw string) ([]FoodItemSuggestion, bool) {
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.WithError(err).WithField("raw", raw).Warn("failed to parse LLM response")
		return []FoodItemSuggestion{}, false
	}

	items := make([]FoodItemSuggestion, 0, len(records))
	for i, rec := range records {
		var item FoodItemSuggestion
		if err := json.Unmarshal(rec, &item); err != nil {
			// A wrong-typed field leaves its zero value and the rest of the
			// record intact; an empty Field means the element is not an object.
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				log.WithError(err).WithField("raw", raw).Warn("failed to parse LLM response")
				return []FoodItemSuggestion{}, false
			}
			if p.Strict {
				log.WithField("index", i).Debug("dropping malformed food item")
				continue
			}
			if typeErr.Field == "" {
				log.WithError(err).WithField("raw", raw).Warn("failed to parse LLM response")
				return []FoodItemSuggestion{}, false
			}
		}

		if p.Strict && !hasRequiredKeys(rec) {
			log.WithField("index", i).Debug("dropping incomplete food item")
			continue
		}
		items = append(items, item)
	}

	return items, true
}

func hasRequiredKeys(rec json.RawMessage) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rec, &fields); err != nil {
		return false
	}
	for _, k := range requiredKeys {
		if !hasKey(fields, k) {
			return false
		}
	}
	return true
}

// hasKey matches keys case-insensitively, the way the decoder does.
func hasKey(fields map[string]json.RawMessage, key string) bool {
	if _, ok := fields[key]; ok {
		return true
	}
	for k := range fields {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
