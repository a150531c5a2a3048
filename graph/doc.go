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


// Package graph implements the in-memory content knowledge graph.
//
// A ContentGraph stores the nodes derived from ingested content records
// (content pages, FAQ question/answer pairs, specifications, download
// links, API documentation and code examples) and the typed edges
// linking them. It supports relation-filtered neighbor lookups, kind
// histograms, and export to JSON, GML and GraphML for external graph
// tools, with JSON round-tripping back through ImportJSON.
//
// Concurrency model: one write lock per ingestion, so a record and all
// of its derived sub-nodes appear atomically to readers; reads run
// concurrently against a stable snapshot.
package graph
