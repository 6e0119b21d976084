// ABOUTME: This file implements bounded collection of records from an iterator
// ABOUTME: Orchestration layer between the CLI and the pagination service

package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"pixiv-app-client/service"
)

// RecordCollector drains a record iterator into a slice, optionally
// stopping after a bounded number of records. Stopping early abandons the
// iterator, which issues no further network calls.
type RecordCollector struct {
	logger *slog.Logger
}

// NewRecordCollector creates a new record collector
func NewRecordCollector(logger *slog.Logger) *RecordCollector {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordCollector{logger: logger}
}

// Collect pulls up to limit records from the iterator; limit <= 0 means
// the whole sequence. Records already collected are discarded on error.
func (c *RecordCollector) Collect(ctx context.Context, it *service.RecordIterator, limit int) ([]map[string]interface{}, error) {
	var records []map[string]interface{}

	for it.Next(ctx) {
		records = append(records, it.Record())
		if limit > 0 && len(records) >= limit {
			c.logger.Debug("Record limit reached", "limit", limit)
			return records, nil
		}
	}

	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("record collection failed: %w", err)
	}

	c.logger.Debug("Record sequence exhausted", "count", len(records))
	return records, nil
}
