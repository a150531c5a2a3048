package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/orbitalgrid/helpgraph/core"
)

// LoadRecords parses a scraper output file: a JSON array of content
// records.
func LoadRecords(path string) ([]*core.ContentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []*core.ContentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// IngestFile loads a scraper output file and ingests its records.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (*Report, error) {
	records, err := LoadRecords(path)
	if err != nil {
		return nil, err
	}
	return p.Ingest(ctx, records), nil
}
