// ABOUTME: This file implements the pagination-driving record iterator
// ABOUTME: Follows next_url continuations and flattens pages into a lazy record sequence

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"pixiv-app-client/driver"
	"pixiv-app-client/models"
	"pixiv-app-client/utils"
)

// AppAPIDriver interface for the authenticated HTTP communication layer
type AppAPIDriver interface {
	Get(ctx context.Context, accessToken, path string, params map[string]string) (map[string]interface{}, error)
}

// TokenSource supplies a usable token before every page request
type TokenSource interface {
	EnsureFresh(ctx context.Context, token models.AuthToken) (models.AuthToken, error)
}

// iterState tracks the pagination state machine. The iterator starts in
// stateInitial, alternates between fetching and emitting, and lands in
// stateDone or stateFailed, both terminal.
type iterState int

const (
	stateInitial  iterState = iota // no request issued yet
	stateEmitting                  // a continuation remains after the buffered page
	stateDone                      // no continuation remained after the buffered page
	stateFailed                    // an error ended the sequence
)

// RecordIterator walks a paginated endpoint one record at a time, in the
// bufio.Scanner idiom:
//
//	it := svc.IllustRankings(token, models.FilterForAndroid, models.RankModeDay)
//	for it.Next(ctx) {
//	    record := it.Record()
//	    ...
//	}
//	if err := it.Err(); err != nil { ... }
//
// Each Next call issues at most the network requests needed to reach the
// next record; abandoning the iterator issues no further requests. Pages
// are consumed strictly in continuation order, so the iterator is not safe
// for concurrent use. Independent iterators are.
type RecordIterator struct {
	client  AppAPIDriver
	tokens  TokenSource
	logger  *slog.Logger
	monitor *utils.Monitor

	desc   models.EndpointDescriptor
	params map[string]string
	token  models.AuthToken

	state  iterState
	buffer []map[string]interface{}
	idx    int
	record map[string]interface{}
	err    error
}

func newRecordIterator(
	client AppAPIDriver,
	tokens TokenSource,
	logger *slog.Logger,
	monitor *utils.Monitor,
	desc models.EndpointDescriptor,
	token models.AuthToken,
	initialArgs map[string]string,
) *RecordIterator {
	if logger == nil {
		logger = slog.Default()
	}

	// Own a copy of the argument set: continuation values overwrite
	// entries page by page and the caller's map must not change under us.
	params := make(map[string]string, len(initialArgs))
	for key, value := range initialArgs {
		params[key] = value
	}

	return &RecordIterator{
		client:  client,
		tokens:  tokens,
		logger:  logger,
		monitor: monitor,
		desc:    desc,
		params:  params,
		token:   token,
		state:   stateInitial,
	}
}

// Next advances the iterator to the next record, fetching further pages as
// the buffered ones run out. It returns false when the sequence is
// exhausted or failed; Err distinguishes the two.
func (it *RecordIterator) Next(ctx context.Context) bool {
	if it.state == stateFailed {
		return false
	}

	for {
		if it.idx < len(it.buffer) {
			it.record = it.buffer[it.idx]
			it.idx++
			return true
		}

		if it.state == stateDone {
			return false
		}

		// A page may carry an empty list and still name a continuation;
		// keep fetching until a record or a terminal page shows up.
		if !it.fetchPage(ctx) {
			return false
		}
	}
}

// Record returns the record produced by the last successful Next call.
func (it *RecordIterator) Record() map[string]interface{} {
	return it.record
}

// Decode unmarshals the current record into a typed view such as
// models.Illust.
func (it *RecordIterator) Decode(v interface{}) error {
	data, err := json.Marshal(it.record)
	if err != nil {
		return fmt.Errorf("failed to re-encode record: %w", err)
	}
	return json.Unmarshal(data, v)
}

// Err returns the error that ended the sequence, nil after a clean
// exhaustion. The error is always a *models.APIError.
func (it *RecordIterator) Err() error {
	return it.err
}

// Token returns the latest token snapshot the iterator holds; it may be
// newer than the one the iterator started with if a renewal happened
// between pages.
func (it *RecordIterator) Token() models.AuthToken {
	return it.token
}

// fetchPage issues one endpoint call, validates the page shape, buffers
// its records, and folds the continuation parameters into the next
// request's argument set.
func (it *RecordIterator) fetchPage(ctx context.Context) bool {
	startTime := time.Now()

	token, err := it.tokens.EnsureFresh(ctx, it.token)
	if err != nil {
		return it.fail(err)
	}
	it.token = token

	page, err := it.client.Get(ctx, token.AccessToken, it.desc.Path, it.params)
	duration := time.Since(startTime)
	if err != nil {
		actual := 0
		var statusErr *driver.StatusError
		if errors.As(err, &statusErr) {
			actual = statusErr.StatusCode
		}
		apiErr := models.NewTransportFailed(it.desc.Name, http.StatusOK, actual, err)
		if it.monitor != nil {
			it.monitor.LogPageFetch(ctx, it.desc.Name, 0, false, duration, apiErr)
		}
		return it.fail(apiErr)
	}

	// Validate the page shape before anything is handed to the consumer
	records, err := extractRecords(it.desc, page)
	if err != nil {
		return it.fail(err)
	}

	nextParams, hasNext, err := it.continuation(page)
	if err != nil {
		return it.fail(err)
	}

	if hasNext {
		for key, value := range nextParams {
			it.params[key] = value
		}
		it.state = stateEmitting
	} else {
		it.state = stateDone
	}

	it.buffer = records
	it.idx = 0

	it.logger.Debug("Fetched page",
		"endpoint", it.desc.Name,
		"record_count", len(records),
		"has_next_page", hasNext)
	if it.monitor != nil {
		it.monitor.LogPageFetch(ctx, it.desc.Name, len(records), hasNext, duration, nil)
	}

	return true
}

// continuation reads the page's next_url field. Absent, null, or empty
// values terminate the sequence; anything else must be a URL carrying
// every continuation parameter the descriptor names.
func (it *RecordIterator) continuation(page map[string]interface{}) (map[string]string, bool, error) {
	raw, present := page[models.ContinuationField]
	if !present || raw == nil {
		return nil, false, nil
	}

	nextURL, ok := raw.(string)
	if !ok {
		return nil, false, models.NewMalformedContinuation(it.desc.Name,
			fmt.Errorf("continuation field %q is not a string", models.ContinuationField))
	}
	if nextURL == "" {
		return nil, false, nil
	}

	params, err := utils.ExtractContinuationParams(nextURL, it.desc.ContinuationKeys)
	if err != nil {
		return nil, false, models.NewMalformedContinuation(it.desc.Name, err)
	}

	return params, true, nil
}

// fail records the terminal error; it always returns false so call sites
// can return its result directly.
func (it *RecordIterator) fail(err error) bool {
	it.err = err
	it.state = stateFailed
	it.logger.Error("Pagination stopped", "endpoint", it.desc.Name, "error", err)
	return false
}

// extractRecords verifies that the page maps the descriptor's list key to
// a list of objects and returns the converted records.
func extractRecords(desc models.EndpointDescriptor, page map[string]interface{}) ([]map[string]interface{}, error) {
	rawList, ok := page[desc.ListKey].([]interface{})
	if !ok {
		return nil, models.NewInvalidResponseShape(desc.Name, desc.ListKey, pageKeys(page))
	}

	records := make([]map[string]interface{}, 0, len(rawList))
	for i, item := range rawList {
		record, ok := item.(map[string]interface{})
		if !ok {
			return nil, &models.APIError{
				Kind:     models.KindInvalidResponseShape,
				Endpoint: desc.Name,
				Message:  fmt.Sprintf("list key %q item %d is not an object", desc.ListKey, i),
			}
		}
		records = append(records, record)
	}

	return records, nil
}

func pageKeys(page map[string]interface{}) []string {
	keys := make([]string, 0, len(page))
	for key := range page {
		keys = append(keys, key)
	}
	return keys
}
