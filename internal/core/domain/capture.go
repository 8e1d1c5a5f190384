package domain

import "time"

// CaptureSession is one recorded run of raw records.
type CaptureSession struct {
	// ID is the unique identifier for the session.
	ID string

	// Label is an optional user-supplied name.
	Label string

	// Port and Baud describe where the records came from.
	Port string
	Baud Baud

	// StartedAt is when recording began.
	StartedAt time.Time

	// EndedAt is zero while the session is still recording.
	EndedAt time.Time

	// RecordCount is the number of records stored.
	RecordCount int
}

// Active returns true while the session is still recording.
func (s *CaptureSession) Active() bool {
	return s.EndedAt.IsZero()
}

// Duration returns how long the session ran, or has run so far.
func (s *CaptureSession) Duration() time.Duration {
	if s.Active() {
		return time.Since(s.StartedAt)
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// CapturedRecord is one raw record kept in a capture session.
type CapturedRecord struct {
	// Seq orders records within their session, starting at 1.
	Seq int64

	// ReceivedAt is when the record was framed.
	ReceivedAt time.Time

	// Raw is the record text without its terminator.
	Raw string

	// Values are the parsed fields. Nil when the record failed to parse.
	Values []int64
}
