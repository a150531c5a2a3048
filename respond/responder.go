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


package respond

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/orbitalgrid/helpgraph/core"
	"github.com/orbitalgrid/helpgraph/graph"
	"github.com/orbitalgrid/helpgraph/query"
	"github.com/orbitalgrid/helpgraph/search"
)

// Per-intent search limits and query rewrites.
const (
	spatialLimit  = 5
	downloadLimit = 10
	apiLimit      = 8
	supportLimit  = 6
	generalLimit  = 8

	apiRewritePrefix     = "API "
	supportRewritePrefix = "help support "
)

// Responder dispatches a classified query to the intent-specific
// response builder. Each builder runs a search with its own query
// rewrite and limit, post-filters the hits by node kind into a
// structured payload, and attaches sources and follow-up suggestions.
type Responder struct {
	graph  *graph.ContentGraph
	engine *search.Engine
	logger *slog.Logger
}

// Option configures a Responder.
type Option func(*Responder) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger.With("component", "respond")
		return nil
	}
}

// NewResponder creates a responder over the given graph and engine.
func NewResponder(g *graph.ContentGraph, engine *search.Engine, opts ...Option) (*Responder, error) {
	if g == nil {
		return nil, ErrGraphRequired
	}
	if engine == nil {
		return nil, ErrEngineRequired
	}

	r := &Responder{
		graph:  g,
		engine: engine,
		logger: slog.Default().With("component", "respond"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Respond builds a response for a classified query. It never fails:
// a search error produces an error response with fallback suggestions
// instead of propagating.
func (r *Responder) Respond(ctx context.Context, analysis core.QueryAnalysis) *Response {
	switch analysis.Intent {
	case core.IntentGeospatialQuery:
		return r.spatial(ctx, analysis)
	case core.IntentDataDownload:
		return r.download(ctx, analysis)
	case core.IntentAPIHelp:
		return r.apiHelp(ctx, analysis)
	case core.IntentTechnicalSupport:
		return r.support(ctx, analysis)
	default:
		return r.general(ctx, analysis)
	}
}

func (r *Responder) spatial(ctx context.Context, analysis core.QueryAnalysis) *Response {
	results, err := r.engine.Search(ctx, analysis.OriginalQuery, spatialLimit)
	if err != nil {
		return r.errorResponse(TypeSpatial, analysis, err)
	}

	return &Response{
		Success:  true,
		Type:     TypeSpatial,
		Analysis: analysis,
		Results:  results,
		Sources:  extractSources(results),
		Suggestions: []string{
			"What regions have data coverage?",
			"How do I query data by coordinates?",
			"What is the spatial resolution of the data?",
			"How do I get data for a bounding box?",
		},
	}
}

func (r *Responder) download(ctx context.Context, analysis core.QueryAnalysis) *Response {
	results, err := r.engine.Search(ctx, analysis.OriginalQuery, downloadLimit)
	if err != nil {
		return r.errorResponse(TypeDownload, analysis, err)
	}

	return &Response{
		Success:  true,
		Type:     TypeDownload,
		Analysis: analysis,
		Results:  results,
		Sources:  extractSources(results),
		Download: extractDownloadInfo(results),
		Suggestions: []string{
			"How do I access the data?",
			"What file formats are available?",
			"What is the data resolution?",
			"How do I download large datasets?",
		},
	}
}

func (r *Responder) apiHelp(ctx context.Context, analysis core.QueryAnalysis) *Response {
	results, err := r.engine.Search(ctx, apiRewritePrefix+analysis.OriginalQuery, apiLimit)
	if err != nil {
		return r.errorResponse(TypeAPIHelp, analysis, err)
	}

	return &Response{
		Success:  true,
		Type:     TypeAPIHelp,
		Analysis: analysis,
		Results:  results,
		Sources:  extractSources(results),
		API:      extractAPIInfo(results),
		Suggestions: []string{
			"How do I authenticate with the API?",
			"What are the rate limits?",
			"How do I handle API errors?",
			"What are the response formats?",
		},
	}
}

func (r *Responder) support(ctx context.Context, analysis core.QueryAnalysis) *Response {
	results, err := r.engine.Search(ctx, supportRewritePrefix+analysis.OriginalQuery, supportLimit)
	if err != nil {
		return r.errorResponse(TypeSupport, analysis, err)
	}

	return &Response{
		Success:  true,
		Type:     TypeSupport,
		Analysis: analysis,
		Results:  results,
		Sources:  extractSources(results),
		Support:  r.extractSupportInfo(results),
		Suggestions: []string{
			"How do I contact support?",
			"What are common issues?",
			"How do I report a bug?",
			"Where can I find documentation?",
		},
	}
}

func (r *Responder) general(ctx context.Context, analysis core.QueryAnalysis) *Response {
	results, err := r.engine.Search(ctx, analysis.OriginalQuery, generalLimit)
	if err != nil {
		return r.errorResponse(TypeGeneral, analysis, err)
	}

	return &Response{
		Success:     true,
		Type:        TypeGeneral,
		Analysis:    analysis,
		Results:     results,
		Sources:     extractSources(results),
		Suggestions: query.Suggestions(analysis.OriginalQuery, 5),
	}
}

// extractDownloadInfo collects download links and decoded specification
// blocks from the result nodes.
func extractDownloadInfo(results []core.SearchResult) *DownloadInfo {
	info := &DownloadInfo{}
	for _, result := range results {
		switch result.Node.Kind {
		case core.KindDownloadLink:
			info.Links = append(info.Links, core.DownloadLink{
				URL:      result.Node.Attr(core.AttrURL),
				Text:     result.Node.Attr(core.AttrText),
				FileType: result.Node.Attr(core.AttrFileType),
			})
		case core.KindSpecification:
			var specs map[string]string
			if err := json.Unmarshal([]byte(result.Node.Attr(core.AttrData)), &specs); err == nil {
				info.Specifications = append(info.Specifications, specs)
			}
		}
	}
	return info
}

// extractAPIInfo collects documentation texts and code examples from
// the result nodes.
func extractAPIInfo(results []core.SearchResult) *APIInfo {
	info := &APIInfo{}
	for _, result := range results {
		switch result.Node.Kind {
		case core.KindAPIDoc:
			info.Documentation = append(info.Documentation, result.Node.Attr(core.AttrText))
		case core.KindCodeExample:
			info.CodeExamples = append(info.CodeExamples, result.Node.Attr(core.AttrCode))
		}
	}
	return info
}

// extractSupportInfo collects question hits and resolves each answer
// through the question's HasAnswer edge.
func (r *Responder) extractSupportInfo(results []core.SearchResult) *SupportInfo {
	info := &SupportInfo{}
	for _, result := range results {
		if result.Node.Kind != core.KindQuestion {
			continue
		}
		faq := FAQ{Question: result.Node.Attr(core.AttrText)}
		if answers := r.graph.Related(result.NodeID, core.RelationHasAnswer); len(answers) > 0 {
			faq.Answer = answers[0].Node.Attr(core.AttrText)
		}
		info.FAQs = append(info.FAQs, faq)
	}
	return info
}

// extractSources lists the originating pages of result nodes carrying a
// url attribute.
func extractSources(results []core.SearchResult) []Source {
	var sources []Source
	for _, result := range results {
		url := result.Node.Attr(core.AttrURL)
		if url == "" {
			continue
		}
		title := result.Node.Attr(core.AttrTitle)
		if title == "" {
			title = "Unknown"
		}
		sourceType := result.Node.Attr(core.AttrContentType)
		if sourceType == "" {
			sourceType = "unknown"
		}
		sources = append(sources, Source{URL: url, Title: title, Type: sourceType})
	}
	return sources
}

func (r *Responder) errorResponse(responseType string, analysis core.QueryAnalysis, err error) *Response {
	r.logger.Error("response builder failed",
		"response_type", responseType, "query", analysis.OriginalQuery, "err", err)

	return &Response{
		Success:  false,
		Type:     responseType,
		Error:    err.Error(),
		Analysis: analysis,
		Suggestions: []string{
			"Try rephrasing your question",
			"Check the portal documentation",
			"Contact technical support",
			"Browse the FAQ section",
		},
	}
}
