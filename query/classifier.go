// Copyright 2026 Orbital Grid
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package query

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/orbitalgrid/helpgraph/ai"
	"github.com/orbitalgrid/helpgraph/core"
)

// DefaultConfidence is assigned when no intent trigger word matches and
// the query falls through to the general-question intent.
const DefaultConfidence = 0.5

// Classifier analyzes user queries: it normalizes the text, extracts
// typed entities, scores the query against the intent keyword tables
// and collects search keywords.
//
// The tagger is optional. Without one, entity extraction runs on the
// regex patterns alone and keyword extraction falls back to plain token
// filtering. A failing tagger degrades the same way, per call.
type Classifier struct {
	tagger ai.EntityTagger
	logger *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier) error

// WithTagger sets the entity tagger used for tagger-based entity
// extraction and lemma-aware keyword extraction.
func WithTagger(tagger ai.EntityTagger) Option {
	return func(c *Classifier) error {
		c.tagger = tagger
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "query")
		return nil
	}
}

// NewClassifier creates a query classifier.
func NewClassifier(opts ...Option) (*Classifier, error) {
	c := &Classifier{
		logger: slog.Default().With("component", "query"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Classify analyzes a query and never fails: any internal fault yields
// an unknown-intent analysis with zero confidence instead of an error,
// so classification cannot abort the caller's pipeline.
func (c *Classifier) Classify(ctx context.Context, queryText string) (analysis core.QueryAnalysis) {
	analysis = core.QueryAnalysis{
		Intent:         core.IntentUnknown,
		Entities:       map[core.EntityKind][]string{},
		OriginalQuery:  queryText,
		ProcessedQuery: queryText,
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("classification panicked", "query", queryText, "cause", r)
			analysis = core.QueryAnalysis{
				Intent:         core.IntentUnknown,
				Entities:       map[core.EntityKind][]string{},
				OriginalQuery:  queryText,
				ProcessedQuery: queryText,
			}
		}
	}()

	processed := Normalize(queryText)
	analysis.ProcessedQuery = processed

	tagging := c.tag(ctx, processed)

	analysis.Entities = extractEntities(processed, tagging)
	analysis.Intent, analysis.Confidence = classifyIntent(processed, analysis.Entities)
	analysis.Keywords = extractKeywords(processed, tagging)

	return analysis
}

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	punctRE      = regexp.MustCompile(`[^\w\s\-\.]`)
)

// Normalize lowercases a query, collapses whitespace and strips
// punctuation except hyphen and period, so tokens like "10.5" and
// "near-real-time" survive intact.
func Normalize(queryText string) string {
	q := strings.ToLower(queryText)
	q = strings.TrimSpace(whitespaceRE.ReplaceAllString(q, " "))
	q = punctRE.ReplaceAllString(q, " ")
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(q, " "))
}

// tag runs the tagger when one is configured. A tagger failure logs and
// returns nil, which downgrades the call to regex-only extraction.
func (c *Classifier) tag(ctx context.Context, processed string) *ai.Tagging {
	if c.tagger == nil || processed == "" {
		return nil
	}
	tagging, err := c.tagger.Tag(ctx, processed)
	if err != nil {
		c.logger.Warn("entity tagging failed, using pattern extraction only", "err", err)
		return nil
	}
	return tagging
}

// extractEntities merges pattern-based and tagger-based extraction into
// one mapping. Within a kind, duplicates are removed and first
// occurrence order is kept, pattern hits before tagger hits.
func extractEntities(processed string, tagging *ai.Tagging) map[core.EntityKind][]string {
	found := make(map[core.EntityKind][]string)

	for _, table := range entityPatterns {
		for _, pattern := range table.patterns {
			for _, match := range pattern.FindAllStringSubmatch(processed, -1) {
				if len(match) > 1 && match[1] != "" {
					found[table.kind] = append(found[table.kind], match[1])
				}
			}
		}
	}

	if tagging != nil {
		for _, span := range tagging.Entities {
			switch span.Label {
			case ai.LabelGeoPolitical:
				found[core.EntityLocation] = append(found[core.EntityLocation], span.Text)
			case ai.LabelOrganization:
				found[core.EntitySatellite] = append(found[core.EntitySatellite], span.Text)
			case ai.LabelProduct:
				found[core.EntityDataType] = append(found[core.EntityDataType], span.Text)
			}
		}

		// Multi-word noun phrases hint at mission or instrument names.
		for _, chunk := range tagging.NounChunks {
			if !strings.Contains(chunk, " ") {
				continue
			}
			lower := strings.ToLower(chunk)
			switch {
			case containsAny(lower, "satellite", "mission", "data"):
				found[core.EntitySatellite] = append(found[core.EntitySatellite], chunk)
			case containsAny(lower, "sensor", "instrument"):
				found[core.EntitySensor] = append(found[core.EntitySensor], chunk)
			}
		}
	}

	entities := make(map[core.EntityKind][]string, len(found))
	for kind, values := range found {
		entities[kind] = dedupe(values)
	}
	return entities
}

// classifyIntent scores the normalized query against the intent keyword
// tables, applies entity-driven bonuses, and returns the winning intent
// with its confidence. All-zero scores fall through to general-question
// with the fixed default confidence.
func classifyIntent(processed string, entities map[core.EntityKind][]string) (core.Intent, float64) {
	scores := make([]int, len(intentTable))
	for i, row := range intentTable {
		for _, keyword := range row.keywords {
			if strings.Contains(processed, keyword) {
				scores[i]++
			}
		}
	}

	for i, row := range intentTable {
		switch row.intent {
		case core.IntentGeospatialQuery:
			if len(entities[core.EntityLocation]) > 0 {
				scores[i] += 2
			}
		case core.IntentAPIHelp:
			if len(entities[core.EntityAPIEndpoint]) > 0 {
				scores[i] += 2
			}
		case core.IntentDataDownload:
			if len(entities[core.EntityFileFormat]) > 0 {
				scores[i]++
			}
		}
	}

	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}
	if scores[best] == 0 {
		return core.IntentGeneralQuestion, DefaultConfidence
	}

	confidence := float64(scores[best]) / float64(totalTriggerWords)
	if confidence > 1.0 {
		confidence = 1.0
	}
	return intentTable[best].intent, confidence
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// dedupe removes duplicates keeping first occurrence order.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
