package domain

import "fmt"

// Point is a single sample in a series.
type Point struct {
	// Position is the insertion counter, not wall-clock time.
	Position int64

	// Value is the parsed field value.
	Value int64
}

// WindowKind selects how a series bounds its history.
type WindowKind string

// Available window kinds.
const (
	// WindowCount keeps at most MaxPoints points.
	WindowCount WindowKind = "count"

	// WindowPosition keeps the points of the last MaxAge positions.
	WindowPosition WindowKind = "position"
)

// IsValid returns true if the window kind is recognised.
func (k WindowKind) IsValid() bool {
	switch k {
	case WindowCount, WindowPosition:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k WindowKind) String() string {
	return string(k)
}

// Description returns a human-readable description of the kind.
func (k WindowKind) Description() string {
	switch k {
	case WindowCount:
		return "Count (keep the newest N points)"
	case WindowPosition:
		return "Position (keep points within the lookback)"
	default:
		return unknownDescription
	}
}

// WindowPolicy is the eviction strategy shared by every series of a store.
type WindowPolicy struct {
	// Kind selects which bound applies.
	Kind WindowKind

	// MaxPoints bounds count windows.
	MaxPoints int

	// MaxAge is the lookback width of position windows.
	MaxAge int64
}

// CountWindow returns a count-bounded policy.
func CountWindow(maxPoints int) WindowPolicy {
	return WindowPolicy{Kind: WindowCount, MaxPoints: maxPoints}
}

// PositionWindow returns a position-bounded policy.
func PositionWindow(maxAge int64) WindowPolicy {
	return WindowPolicy{Kind: WindowPosition, MaxAge: maxAge}
}

// Validate checks the policy is usable.
func (p WindowPolicy) Validate() error {
	switch p.Kind {
	case WindowCount:
		if p.MaxPoints < 1 {
			return fmt.Errorf("%w: max points must be at least 1, got %d", ErrInvalidInput, p.MaxPoints)
		}
	case WindowPosition:
		if p.MaxAge < 1 {
			return fmt.Errorf("%w: max age must be at least 1, got %d", ErrInvalidInput, p.MaxAge)
		}
	default:
		return fmt.Errorf("%w: unknown window kind %q", ErrInvalidInput, p.Kind)
	}
	return nil
}

// Span returns how many positions a full window covers.
// Renderers use it to size the x axis.
func (p WindowPolicy) Span() int {
	if p.Kind == WindowCount {
		return p.MaxPoints
	}
	return int(p.MaxAge)
}

// String renders the policy for display.
func (p WindowPolicy) String() string {
	if p.Kind == WindowCount {
		return fmt.Sprintf("count(%d)", p.MaxPoints)
	}
	return fmt.Sprintf("position(%d)", p.MaxAge)
}

// Snapshot is a consistent copy of every series taken under one lock.
type Snapshot struct {
	// Series holds each series' points, indexed by field position.
	Series [][]Point

	// Position is the next shared position the store will assign.
	Position int64

	// Policy is the window applied to every series.
	Policy WindowPolicy
}

// Len returns the number of series in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Series)
}

// Latest returns the newest value of series i.
// The boolean is false when the series is empty or out of range.
func (s Snapshot) Latest(i int) (int64, bool) {
	if i < 0 || i >= len(s.Series) || len(s.Series[i]) == 0 {
		return 0, false
	}
	pts := s.Series[i]
	return pts[len(pts)-1].Value, true
}
