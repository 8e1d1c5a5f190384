// Package series holds bounded time series and the multi-series store that
// routes record fields to them.
//
// A Series is a head-evicting window of points. A Store owns one Series per
// field index, grows as wider records arrive and keeps every series aligned on
// a single shared position counter.
package series

import (
	"fmt"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

// Series is an ordered, bounded run of points for one channel.
// Positions strictly increase from head to tail. Eviction only removes from
// the head.
//
// A Series is not safe for concurrent use; the Store serialises access.
type Series struct {
	policy domain.WindowPolicy
	start  int64
	next   int64
	points []domain.Point
}

// NewSeries creates an empty series whose own counter starts at start.
func NewSeries(policy domain.WindowPolicy, start int64) *Series {
	return &Series{
		policy: policy,
		start:  start,
		next:   start,
	}
}

// Append adds value at the series' own counter and advances it.
func (s *Series) Append(value int64) {
	s.push(domain.Point{Position: s.next, Value: value})
}

// AppendAt adds value at an externally supplied position.
// The position must be greater than the tail's.
func (s *Series) AppendAt(position, value int64) error {
	if n := len(s.points); n > 0 && position <= s.points[n-1].Position {
		return fmt.Errorf("%w: %d after %d", domain.ErrOutOfOrder, position, s.points[n-1].Position)
	}
	s.push(domain.Point{Position: position, Value: value})
	return nil
}

func (s *Series) push(p domain.Point) {
	s.points = append(s.points, p)
	s.next = p.Position + 1
	s.evict()
}

func (s *Series) evict() {
	switch s.policy.Kind {
	case domain.WindowCount:
		if over := len(s.points) - s.policy.MaxPoints; over > 0 {
			s.dropHead(over)
		}
	case domain.WindowPosition:
		s.PruneBefore(s.next - s.policy.MaxAge)
	}
}

// PruneBefore drops head points whose position is below cutoff and returns
// how many were removed.
func (s *Series) PruneBefore(cutoff int64) int {
	n := 0
	for n < len(s.points) && s.points[n].Position < cutoff {
		n++
	}
	s.dropHead(n)
	return n
}

func (s *Series) dropHead(n int) {
	if n <= 0 {
		return
	}
	kept := copy(s.points, s.points[n:])
	clear(s.points[kept:])
	s.points = s.points[:kept]
}

// Snapshot returns a copy of the points, oldest first.
func (s *Series) Snapshot() []domain.Point {
	out := make([]domain.Point, len(s.points))
	copy(out, s.points)
	return out
}

// Clear drops every point and rewinds the own counter to its start.
func (s *Series) Clear() {
	s.points = s.points[:0]
	s.next = s.start
}

// Len returns the number of points held.
func (s *Series) Len() int {
	return len(s.points)
}

// Next returns the position the next Append will use.
func (s *Series) Next() int64 {
	return s.next
}

// Policy returns the eviction policy.
func (s *Series) Policy() domain.WindowPolicy {
	return s.policy
}

// Last returns the newest point.
// The boolean is false when the series is empty.
func (s *Series) Last() (domain.Point, bool) {
	if len(s.points) == 0 {
		return domain.Point{}, false
	}
	return s.points[len(s.points)-1], true
}
