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


// Package ai defines the interfaces for external AI services.
//
// Both services are optional collaborators: the graph and the classifier
// degrade to fallback behavior when no embedder or tagger is configured,
// so a nil Embedder or EntityTagger is always a valid state for callers
// to handle.
//
//   - Embedder: text to fixed-length vector, for semantic search
//   - EntityTagger: text to labeled spans, noun chunks and tokens,
//     for query entity extraction and keyword selection
//
// The openai subpackage implements both against OpenAI-compatible APIs;
// the mock subpackage provides deterministic test doubles.
package ai
