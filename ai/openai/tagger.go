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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/orbitalgrid/helpgraph/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// EntityTagger implements ai.EntityTagger using OpenAI-compatible chat APIs.
type EntityTagger struct {
	client llms.Model
	logger *slog.Logger
}

// tagging mirrors the JSON structure expected from the LLM.
type tagging struct {
	Entities []struct {
		Label string `json:"label"`
		Text  string `json:"text"`
	} `json:"entities"`
	NounChunks []string `json:"noun_chunks"`
	Tokens     []struct {
		Text  string `json:"text"`
		Lemma string `json:"lemma"`
		POS   string `json:"pos"`
		Stop  bool   `json:"stop"`
	} `json:"tokens"`
}

var validSpanLabels = map[string]bool{
	ai.LabelGeoPolitical: true,
	ai.LabelOrganization: true,
	ai.LabelProduct:      true,
}

// newEntityTagger is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEntityTagger(config *ai.Config) (*EntityTagger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for tagging
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.TaggerHost),
		openai.WithToken("none"),
		openai.WithModel(config.TaggerModel),
	)
	if err != nil {
		return nil, err
	}

	return &EntityTagger{
		client: client,
		logger: slog.Default().With("component", "openai-tagger"),
	}, nil
}

// NewEntityTagger creates a new entity tagger using the provided configuration.
//
// Returns ai.EntityTagger interface to enforce abstraction.
func NewEntityTagger(config *ai.Config) (ai.EntityTagger, error) {
	return newEntityTagger(config)
}

// Tag analyzes text with an LLM and returns entities, noun chunks and tokens.
// Spans with labels outside the known set are dropped.
func (t *EntityTagger) Tag(ctx context.Context, text string) (*ai.Tagging, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildTaggerPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result tagging
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := t.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			t.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			t.logger.Debug("no choices returned from model")
			return &ai.Tagging{}, nil
		}

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(response.Choices[0].Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			t.logger.Warn("error parsing tagger response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		t.logger.Error("failed to parse tagger response after retries", "err", lastErr)
		return nil, lastErr
	}

	out := &ai.Tagging{
		NounChunks: result.NounChunks,
		Entities:   make([]ai.TaggedSpan, 0, len(result.Entities)),
		Tokens:     make([]ai.Token, 0, len(result.Tokens)),
	}

	for _, e := range result.Entities {
		label := strings.ToUpper(strings.TrimSpace(e.Label))
		if !validSpanLabels[label] || e.Text == "" {
			continue
		}
		out.Entities = append(out.Entities, ai.TaggedSpan{Label: label, Text: e.Text})
	}

	for _, tok := range result.Tokens {
		if tok.Text == "" {
			continue
		}
		lemma := tok.Lemma
		if lemma == "" {
			lemma = strings.ToLower(tok.Text)
		}
		out.Tokens = append(out.Tokens, ai.Token{
			Text:   tok.Text,
			Lemma:  strings.ToLower(lemma),
			POS:    strings.ToUpper(strings.TrimSpace(tok.POS)),
			IsStop: tok.Stop,
		})
	}

	t.logger.Debug("tagged text",
		"entities", len(out.Entities),
		"chunks", len(out.NounChunks),
		"tokens", len(out.Tokens))

	return out, nil
}
