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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbitalgrid/helpgraph/ai"
	"github.com/orbitalgrid/helpgraph/ai/mock"
	"github.com/orbitalgrid/helpgraph/core"
)

func newClassifier(t *testing.T, opts ...Option) *Classifier {
	t.Helper()
	c, err := NewClassifier(opts...)
	require.NoError(t, err)
	return c
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase and collapse", "  What   IS  this ", "what is this"},
		{"keeps hyphen and period", "near-real-time data at 10.5 km", "near-real-time data at 10.5 km"},
		{"strips punctuation", "what's the format, please?", "what s the format please"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestClassifyEmptyQuery(t *testing.T) {
	c := newClassifier(t)

	analysis := c.Classify(context.Background(), "")
	assert.Equal(t, core.IntentGeneralQuestion, analysis.Intent)
	assert.Equal(t, DefaultConfidence, analysis.Confidence)
	assert.Empty(t, analysis.Entities)
	assert.Empty(t, analysis.Keywords)
	assert.Equal(t, "", analysis.ProcessedQuery)
}

func TestClassifyAPIHelp(t *testing.T) {
	c := newClassifier(t)

	analysis := c.Classify(context.Background(), "API authentication endpoint")
	assert.Equal(t, core.IntentAPIHelp, analysis.Intent)
	assert.Greater(t, analysis.Confidence, 0.0)
	assert.Equal(t, "api authentication endpoint", analysis.ProcessedQuery)
}

func TestClassifyAPIEndpointEntityBonus(t *testing.T) {
	c := newClassifier(t)

	analysis := c.Classify(context.Background(), "api endpoint for authentication")
	assert.Equal(t, core.IntentAPIHelp, analysis.Intent)
	require.Contains(t, analysis.Entities, core.EntityAPIEndpoint)
	assert.Equal(t, []string{"authentication"}, analysis.Entities[core.EntityAPIEndpoint])

	// "api" + "endpoint" trigger words plus the +2 entity bonus.
	assert.InDelta(t, 4.0/float64(totalTriggerWords), analysis.Confidence, 1e-9)
}

func TestClassifyLocationEntityBonus(t *testing.T) {
	c := newClassifier(t)

	analysis := c.Classify(context.Background(), "rainfall in Mumbai")
	assert.Equal(t, core.IntentGeospatialQuery, analysis.Intent)
	require.Contains(t, analysis.Entities, core.EntityLocation)
	assert.Equal(t, []string{"mumbai"}, analysis.Entities[core.EntityLocation])
}

func TestClassifyDownload(t *testing.T) {
	c := newClassifier(t)

	analysis := c.Classify(context.Background(), "download ocean color product file")
	assert.Equal(t, core.IntentDataDownload, analysis.Intent)
	assert.Greater(t, analysis.Confidence, 0.0)
}

func TestClassifyTieBreaksInTableOrder(t *testing.T) {
	c := newClassifier(t)

	// One trigger word each for information retrieval ("what") and data
	// download ("file"); the earlier table row wins.
	analysis := c.Classify(context.Background(), "what file")
	assert.Equal(t, core.IntentInformationRetrieval, analysis.Intent)
	assert.InDelta(t, 1.0/float64(totalTriggerWords), analysis.Confidence, 1e-9)
}

func TestClassifyConfidenceClamped(t *testing.T) {
	_, confidence := classifyIntent("api", map[core.EntityKind][]string{
		core.EntityAPIEndpoint: {"x"},
	})
	assert.LessOrEqual(t, confidence, 1.0)
}

func TestKeywordsWithoutTagger(t *testing.T) {
	c := newClassifier(t)

	analysis := c.Classify(context.Background(), "how do i download satellite imagery")
	assert.Equal(t, []string{"download", "satellite", "imagery"}, analysis.Keywords)
}

func TestKeywordsWithTagger(t *testing.T) {
	tagger := mock.NewMockEntityTagger()
	tagger.TagFunc = func(ctx context.Context, text string) (*ai.Tagging, error) {
		return &ai.Tagging{
			Entities: []ai.TaggedSpan{{Label: ai.LabelOrganization, Text: "INSAT"}},
			Tokens: []ai.Token{
				{Text: "download", Lemma: "download", POS: ai.POSVerb},
				{Text: "latest", Lemma: "late", POS: ai.POSAdjective},
				{Text: "imagery", Lemma: "imagery", POS: ai.POSNoun},
				{Text: "the", Lemma: "the", POS: ai.POSNoun, IsStop: true},
				{Text: "of", Lemma: "of", POS: ai.POSNoun},
				{Text: "quickly", Lemma: "quickly", POS: "ADV"},
			},
		}, nil
	}
	c := newClassifier(t, WithTagger(tagger))

	analysis := c.Classify(context.Background(), "download the latest imagery of INSAT quickly")

	// Lemmas of non-stop NOUN/VERB/ADJ tokens longer than 2 chars, plus
	// lowercased entity texts.
	assert.Equal(t, []string{"download", "late", "imagery", "insat"}, analysis.Keywords)
}

func TestTaggerEntityMerge(t *testing.T) {
	tagger := mock.NewMockEntityTagger()
	tagger.TagFunc = func(ctx context.Context, text string) (*ai.Tagging, error) {
		return &ai.Tagging{
			Entities: []ai.TaggedSpan{
				{Label: ai.LabelGeoPolitical, Text: "india"},
				{Label: ai.LabelOrganization, Text: "isro"},
				{Label: ai.LabelProduct, Text: "ocean color"},
			},
			NounChunks: []string{"insat mission", "thermal sensor", "satellite"},
		}, nil
	}
	c := newClassifier(t, WithTagger(tagger))

	analysis := c.Classify(context.Background(), "hello there")

	assert.Equal(t, []string{"india"}, analysis.Entities[core.EntityLocation])
	assert.Equal(t, []string{"isro", "insat mission"}, analysis.Entities[core.EntitySatellite])
	assert.Equal(t, []string{"ocean color"}, analysis.Entities[core.EntityDataType])
	// Single-word chunks never qualify.
	assert.Equal(t, []string{"thermal sensor"}, analysis.Entities[core.EntitySensor])
}

func TestEntityDedupeKeepsFirstOccurrence(t *testing.T) {
	values := dedupe([]string{"b", "a", "b", "c", "a"})
	assert.Equal(t, []string{"b", "a", "c"}, values)
}

func TestTaggerFailureDegrades(t *testing.T) {
	tagger := mock.NewMockEntityTagger()
	tagger.TagFunc = func(ctx context.Context, text string) (*ai.Tagging, error) {
		return nil, errors.New("tagger offline")
	}
	c := newClassifier(t, WithTagger(tagger))

	analysis := c.Classify(context.Background(), "how do i download satellite imagery")
	assert.Equal(t, core.IntentDataDownload, analysis.Intent)
	// Keyword extraction falls back to plain token filtering.
	assert.Equal(t, []string{"download", "satellite", "imagery"}, analysis.Keywords)
}

func TestClassifyRecoversFromPanic(t *testing.T) {
	tagger := mock.NewMockEntityTagger()
	tagger.TagFunc = func(ctx context.Context, text string) (*ai.Tagging, error) {
		panic("boom")
	}
	c := newClassifier(t, WithTagger(tagger))

	analysis := c.Classify(context.Background(), "download data")
	assert.Equal(t, core.IntentUnknown, analysis.Intent)
	assert.Equal(t, 0.0, analysis.Confidence)
	assert.Empty(t, analysis.Entities)
	assert.Empty(t, analysis.Keywords)
	assert.Equal(t, "download data", analysis.OriginalQuery)
}

func TestSuggestions(t *testing.T) {
	suggestions := Suggestions("download imagery", 3)
	require.Len(t, suggestions, 3)
	assert.Equal(t, "How do I download satellite imagery?", suggestions[0])

	assert.Len(t, Suggestions("", 5), 5)
	assert.Empty(t, Suggestions("anything", 0))
}

func TestEnhanceQuery(t *testing.T) {
	assert.Equal(t, "rainfall in mumbai satellite data", EnhanceQuery("rainfall in mumbai"))
	assert.Equal(t, "download satellite imagery", EnhanceQuery("download satellite imagery"))
}
