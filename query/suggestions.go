package query

import "strings"

// commonQueries are canned portal questions offered as suggestions when
// a search comes back empty or a caller asks for related queries.
var commonQueries = []string{
	"What satellite data is available for my region?",
	"How do I download satellite imagery?",
	"What is the spatial resolution of the data?",
	"How do I use the data portal API?",
	"What sensors are available?",
	"How do I access historical data?",
	"What file formats are supported?",
	"How do I get technical support?",
}

// Suggestions returns up to limit canned queries, preferring the ones
// sharing words with the input and padding with the remainder.
func Suggestions(queryText string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	var suggestions []string
	lower := strings.ToLower(queryText)
	for _, suggestion := range commonQueries {
		if sharesWord(lower, suggestion) {
			suggestions = append(suggestions, suggestion)
		}
	}

	for _, suggestion := range commonQueries {
		if len(suggestions) >= limit {
			break
		}
		if !containsString(suggestions, suggestion) {
			suggestions = append(suggestions, suggestion)
		}
	}

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// EnhanceQuery widens a query with domain context terms when none are
// present, improving recall for terse inputs.
func EnhanceQuery(queryText string) string {
	lower := strings.ToLower(queryText)
	if !containsAny(lower, "satellite", "data", "imagery", "remote sensing") {
		return queryText + " satellite data"
	}
	return queryText
}

func sharesWord(lowerQuery, suggestion string) bool {
	for _, word := range strings.Fields(strings.ToLower(suggestion)) {
		if strings.Contains(lowerQuery, word) {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
