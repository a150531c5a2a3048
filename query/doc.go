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


// Package query classifies user queries for the retrieval pipeline.
//
// The Classifier normalizes query text, extracts typed entities through
// regex pattern tables and an optional external tagger, scores the
// query against fixed intent keyword tables with entity-driven bonuses,
// and collects search keywords. Classification never fails: missing or
// broken collaborators degrade to the pattern-only paths, and internal
// faults yield an unknown-intent result instead of an error.
package query
