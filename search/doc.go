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


// Package search ranks content graph nodes against free-text queries.
//
// The Engine type implements a two-path search:
//   - Semantic scoring by cosine similarity between the query embedding
//     and node embeddings, sharded across a worker pool
//   - Lexical substring scoring over node titles and text content, used
//     when no embedder is available or the embedding call fails
//
// Results are ranked by descending score with ties broken by insertion
// order, then truncated to the requested limit.
package search
