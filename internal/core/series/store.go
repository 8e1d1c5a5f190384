package series

import (
	"sync"

	"github.com/custodia-labs/serplot/internal/core/domain"
	"github.com/custodia-labs/serplot/internal/core/framing"
)

// DefaultInitialSeries is the number of series a store starts with.
const DefaultInitialSeries = 1

// StoreConfig configures a Store.
type StoreConfig struct {
	// Policy is applied to every series the store creates.
	Policy domain.WindowPolicy

	// InitialSeries is the series count before any record arrives.
	// Zero means DefaultInitialSeries.
	InitialSeries int

	// InitialPosition is the first shared position.
	InitialPosition int64
}

// Result describes what one ingest did.
type Result struct {
	// Values are the parsed fields, in series order.
	Values []int64

	// Position is the shared position the values were stored at.
	Position int64

	// Added is the number of series created for this record.
	Added int

	// Pruned is the number of points evicted across all series.
	Pruned int

	// Empty is true when the record carried no fields.
	Empty bool
}

// Store routes record fields to one Series per field index.
//
// The series count only grows. Every series shares one position counter, so a
// record's fields line up on the x axis and a series created late starts at
// the position of the record that created it. A single RWMutex covers each
// ingest and each snapshot end to end, so readers never see a half-applied
// record.
type Store struct {
	mu       sync.RWMutex
	cfg      StoreConfig
	series   []*Series
	position int64
}

// NewStore creates a store from cfg.
func NewStore(cfg StoreConfig) *Store {
	if cfg.InitialSeries <= 0 {
		cfg.InitialSeries = DefaultInitialSeries
	}
	s := &Store{cfg: cfg}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.position = s.cfg.InitialPosition
	s.series = make([]*Series, 0, s.cfg.InitialSeries)
	for range s.cfg.InitialSeries {
		s.series = append(s.series, NewSeries(s.cfg.Policy, s.position))
	}
}

// Ingest tokenizes record and applies it.
// A malformed record leaves the store untouched and returns the
// *domain.ParseError from the tokenizer.
func (s *Store) Ingest(record string) (Result, error) {
	values, err := framing.Tokenize(record)
	if err != nil {
		return Result{}, err
	}
	return s.IngestValues(values), nil
}

// IngestValues applies already parsed values.
// Empty input is a no-op: nothing is appended, pruned or advanced.
func (s *Store) IngestValues(values []int64) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{Values: values, Position: s.position}
	if len(values) == 0 {
		res.Empty = true
		return res
	}

	for len(s.series) < len(values) {
		s.series = append(s.series, NewSeries(s.cfg.Policy, s.position))
		res.Added++
	}

	for i, v := range values {
		before := s.series[i].Len()
		// The shared counter only moves forward, so this cannot be out of order.
		_ = s.series[i].AppendAt(s.position, v)
		res.Pruned += before + 1 - s.series[i].Len()
	}

	s.position++

	if s.cfg.Policy.Kind == domain.WindowPosition {
		cutoff := s.position - s.cfg.Policy.MaxAge
		for _, ser := range s.series {
			res.Pruned += ser.PruneBefore(cutoff)
		}
	}
	return res
}

// Len returns the current number of series.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series)
}

// Position returns the position the next record will be stored at.
func (s *Store) Position() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// Policy returns the window policy shared by all series.
func (s *Store) Policy() domain.WindowPolicy {
	return s.cfg.Policy
}

// Snapshot returns a copy of series i.
// The boolean is false when i is out of range.
func (s *Store) Snapshot(i int) ([]domain.Point, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.series) {
		return nil, false
	}
	return s.series[i].Snapshot(), true
}

// SnapshotAll copies every series and the shared position under one lock.
func (s *Store) SnapshotAll() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.Snapshot{
		Series:   make([][]domain.Point, len(s.series)),
		Position: s.position,
		Policy:   s.cfg.Policy,
	}
	for i, ser := range s.series {
		snap.Series[i] = ser.Snapshot()
	}
	return snap
}

// Reset drops every point and returns the store to its initial series count
// and position.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}
