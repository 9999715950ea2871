// Package store implements the durable collection of tracked forecasts.
//
// The store owns all tracked state for the process lifetime. Mutating
// operations change only in-memory state; callers decide when to Persist.
// Persistence is a single JSON object mapping id -> record, written with a
// temp-file-and-rename so a crash mid-write never leaves the file unreadable.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"forecastbot/internal/types"
)

// ForecastStore is a mutex-guarded in-memory map of tracked forecasts with
// JSON file persistence. It assumes a single process and no external writer.
type ForecastStore struct {
	mu      sync.Mutex
	path    string
	records map[string]types.TrackedForecast
	order   []string // insertion order of ids, for stable iteration
	logger  *slog.Logger
}

// NewForecastStore creates a store backed by the JSON file at path.
// The store starts empty; call Load to restore prior state.
func NewForecastStore(path string, logger *slog.Logger) *ForecastStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForecastStore{
		path:    path,
		records: make(map[string]types.TrackedForecast),
		logger:  logger,
	}
}

// Load reads durable storage if present. Missing, empty, or malformed
// content initializes the store empty rather than failing startup;
// corruption is logged and otherwise treated as "no prior state".
func (s *ForecastStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("tracked forecast file unreadable, starting empty",
				"path", s.path, "error", err)
		}
		return
	}
	if len(data) == 0 {
		return
	}

	var records map[string]types.TrackedForecast
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("tracked forecast file malformed, starting empty",
			"path", s.path, "error", err)
		return
	}

	s.records = make(map[string]types.TrackedForecast, len(records))
	s.order = s.order[:0]
	for id, rec := range records {
		rec.ID = id
		s.records[id] = rec
		s.order = append(s.order, id)
	}
	// Map iteration order is random; sort restored ids so every restart
	// yields the same iteration order.
	slices.Sort(s.order)

	s.logger.Info("tracked forecasts loaded", "path", s.path, "count", len(s.records))
}

// Persist serializes the full current collection to durable storage,
// overwriting prior contents. The write goes to a temporary file in the same
// directory followed by a rename, so readers never observe a partial file.
func (s *ForecastStore) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]types.TrackedForecast, len(s.records))
	for id, rec := range s.records {
		out[id] = rec
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalStoreIO, "failed to encode tracked forecasts", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalStoreIO, "failed to create temp store file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return types.NewAppError(types.ErrCodeInternalStoreIO, "failed to write temp store file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return types.NewAppError(types.ErrCodeInternalStoreIO, "failed to close temp store file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return types.NewAppError(types.ErrCodeInternalStoreIO, "failed to replace store file", err)
	}

	return nil
}

// Add inserts the record under its ID. Fails with conflict_duplicate_id if
// the id already exists; the uuid generation strategy makes that an internal
// invariant violation, but it must still be checked.
func (s *ForecastStore) Add(rec types.TrackedForecast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "tracked forecast has no id", nil)
	}
	if _, exists := s.records[rec.ID]; exists {
		return types.NewAppError(types.ErrCodeConflictDuplicateID,
			fmt.Sprintf("forecast id %q already tracked", rec.ID), nil)
	}

	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	return nil
}

// All returns every tracked record in stable iteration order. The order is
// not semantically meaningful, but repeated calls without intervening
// mutations return the same sequence.
func (s *ForecastStore) All() []types.TrackedForecast {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.TrackedForecast, 0, len(s.order))
	for _, id := range s.order {
		if rec, ok := s.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of tracked records.
func (s *ForecastStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// RemoveMatching removes every record whose location matches
// case-insensitively and whose target date string matches exactly.
// Returns how many records were removed; zero matches leaves the store
// unchanged.
func (s *ForecastStore) RemoveMatching(location, targetDate string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, rec := range s.records {
		if strings.EqualFold(rec.Location, location) && rec.TargetDate == targetDate {
			delete(s.records, id)
			removed++
		}
	}
	if removed > 0 {
		s.compactOrderLocked()
	}
	return removed
}

// RemoveByID removes the record with the given id, reporting whether it was
// present.
func (s *ForecastStore) RemoveByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false
	}
	delete(s.records, id)
	s.compactOrderLocked()
	return true
}

// RemoveBatch removes every listed id in one pass, returning how many were
// present and removed. Used by refresh-all to prune past-dated records.
func (s *ForecastStore) RemoveBatch(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if _, ok := s.records[id]; ok {
			delete(s.records, id)
			removed++
		}
	}
	if removed > 0 {
		s.compactOrderLocked()
	}
	return removed
}

// compactOrderLocked drops order entries whose records are gone.
// Callers must hold s.mu.
func (s *ForecastStore) compactOrderLocked() {
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.records[id]; ok {
			kept = append(kept, id)
		}
	}
	s.order = kept
}
