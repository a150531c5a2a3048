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


package core

import "fmt"

// ValidateContentRecord validates a ContentRecord according to domain rules.
//
// Validation rules:
//   - URL must not be empty
//
// NOT validated (a malformed nested field only skips its derivation step):
//   - ContentType (unrecognized types produce a bare content node)
//   - FAQs, DataInfo, DownloadLinks, APIInfo (optional, type-specific)
func ValidateContentRecord(record *ContentRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidContentRecord)
	}

	if record.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidContentRecord, ErrEmptyURL)
	}

	return nil
}
