package query

import (
	"regexp"

	"github.com/orbitalgrid/helpgraph/core"
)

// entityPatterns holds the regex templates used for pattern-based entity
// extraction, in a fixed kind order. Each kind carries several alternative
// templates; any capture contributes a candidate string for that kind.
// Queries are normalized to lowercase before matching, so all templates
// compile case-insensitive.
var entityPatterns = []struct {
	kind     core.EntityKind
	patterns []*regexp.Regexp
}{
	{
		kind: core.EntityLocation,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:in|at|near|around|within)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
			regexp.MustCompile(`(?i)\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:region|area|zone|city|state)`),
			regexp.MustCompile(`(?i)\b(?:latitude|longitude|coordinates?)\s+(?:of|for)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
		},
	},
	{
		kind: core.EntitySatellite,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:satellite|mission)\s+(?:data|imagery|information)\s+(?:from|of)\s+([A-Z0-9\-]+)`),
			regexp.MustCompile(`(?i)\b([A-Z0-9\-]+)\s+(?:satellite|mission|data)`),
			regexp.MustCompile(`(?i)\b(?:data|imagery)\s+(?:from|of)\s+([A-Z0-9\-]+)`),
		},
	},
	{
		kind: core.EntitySensor,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:sensor|instrument)\s+(?:data|information)\s+(?:from|of)\s+([A-Z0-9\-]+)`),
			regexp.MustCompile(`(?i)\b([A-Z0-9\-]+)\s+(?:sensor|instrument)`),
			regexp.MustCompile(`(?i)\b(?:data|information)\s+(?:from|of)\s+([A-Z0-9\-]+)\s+(?:sensor|instrument)`),
		},
	},
	{
		kind: core.EntityDataType,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:data|product|information)\s+(?:type|format)\s+(?:of|for)\s+([A-Za-z0-9\s\-]+)`),
			regexp.MustCompile(`(?i)\b([A-Za-z0-9\s\-]+)\s+(?:data|product|information)`),
			regexp.MustCompile(`(?i)\b(?:satellite|remote\s+sensing)\s+([A-Za-z0-9\s\-]+)`),
		},
	},
	{
		kind: core.EntityTimePeriod,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:data|information|imagery)\s+(?:from|for|between)\s+([A-Za-z0-9\s\-]+)`),
			regexp.MustCompile(`(?i)\b(?:temporal|time)\s+(?:coverage|resolution|period)\s+(?:of|for)\s+([A-Za-z0-9\s\-]+)`),
			regexp.MustCompile(`(?i)\b(?:historical|recent|latest|archived)\s+([A-Za-z0-9\s\-]+)`),
		},
	},
	{
		kind: core.EntityResolution,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:spatial|ground)\s+resolution\s+(?:of|for)\s+([0-9\.]+\s*(?:m|km|meters?|kilometers?))`),
			regexp.MustCompile(`(?i)\b([0-9\.]+\s*(?:m|km|meters?|kilometers?))\s+(?:resolution|pixel\s+size)`),
			regexp.MustCompile(`(?i)\b(?:high|low|medium)\s+resolution\s+([A-Za-z0-9\s\-]+)`),
		},
	},
	{
		kind: core.EntityFileFormat,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:file|data)\s+format\s+(?:of|for)\s+([A-Za-z0-9]+)`),
			regexp.MustCompile(`(?i)\b([A-Za-z0-9]+)\s+(?:file|data)\s+format`),
			regexp.MustCompile(`(?i)\b(?:download|export)\s+(?:as|in)\s+([A-Za-z0-9]+)`),
		},
	},
	{
		kind: core.EntityAPIEndpoint,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:API|endpoint|service)\s+(?:for|to|of)\s+([A-Za-z0-9\s\-]+)`),
			regexp.MustCompile(`(?i)\b(?:how\s+to|how\s+do\s+I)\s+(?:use|access|call)\s+([A-Za-z0-9\s\-]+)\s+(?:API|service)`),
			regexp.MustCompile(`(?i)\b(?:API|service)\s+(?:documentation|help|example)\s+(?:for|of)\s+([A-Za-z0-9\s\-]+)`),
		},
	},
}

// intentTable maps each intent to its trigger words, in declaration order.
// Scoring checks substring containment against the normalized query, so a
// trigger like "api" also fires inside larger words.
var intentTable = []struct {
	intent   core.Intent
	keywords []string
}{
	{core.IntentInformationRetrieval, []string{
		"what", "how", "where", "when", "which", "tell me", "explain",
		"information", "details", "about", "describe",
	}},
	{core.IntentDataDownload, []string{
		"download", "get", "obtain", "access", "retrieve", "fetch",
		"data", "file", "product", "imagery",
	}},
	{core.IntentTechnicalSupport, []string{
		"help", "support", "problem", "issue", "error", "trouble",
		"fix", "resolve", "work", "function",
	}},
	{core.IntentGeospatialQuery, []string{
		"location", "area", "region", "coordinates", "latitude", "longitude",
		"spatial", "geographic", "map", "boundary",
	}},
	{core.IntentAPIHelp, []string{
		"api", "endpoint", "service", "call", "request", "response",
		"code", "example", "documentation", "integration",
	}},
}

// totalTriggerWords is the denominator of the confidence formula: the
// theoretically achievable total of keyword matches across all intents.
var totalTriggerWords = func() int {
	var total int
	for _, row := range intentTable {
		total += len(row.keywords)
	}
	return total
}()
