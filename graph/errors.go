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


package graph

import "errors"

var (
	// ErrUnsupportedFormat is returned when exporting to an unknown format.
	ErrUnsupportedFormat = errors.New("unsupported export format")

	// ErrDanglingEdge indicates an edge referencing a node that is not in the graph.
	ErrDanglingEdge = errors.New("edge references missing node")

	// ErrDuplicateNode indicates a repeated node ID during restore.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrNodeNotFound indicates an operation referencing a node ID that
	// is not in the graph.
	ErrNodeNotFound = errors.New("node not found")
)
