// Package framing turns a raw byte stream into records and records into
// integer fields.
//
// The Framer reassembles newline-terminated records from chunks that arrive at
// arbitrary boundaries. Tokenize splits one record into its comma-separated
// values. Neither keeps global state, and neither is safe for concurrent use;
// each read loop owns its own Framer.
package framing

import (
	"bytes"
	"iter"
)

// Terminator ends every record on the wire.
const Terminator = '\n'

// Framer accumulates raw chunks and cuts complete records out of them.
// Bytes after the newest terminator stay buffered until a later chunk
// completes them.
type Framer struct {
	pending []byte
}

// NewFramer creates an empty framer.
func NewFramer() *Framer {
	return &Framer{}
}

// FeedRaw appends chunk to the pending buffer and returns the complete records
// it now holds, each including its terminator.
//
// Records are cut from the buffer as the sequence is consumed. Stopping early
// leaves the remaining records buffered; the next Feed or FeedRaw yields them
// first.
func (f *Framer) FeedRaw(chunk []byte) iter.Seq[[]byte] {
	f.pending = append(f.pending, chunk...)

	return func(yield func([]byte) bool) {
		for {
			i := bytes.IndexByte(f.pending, Terminator)
			if i < 0 {
				return
			}
			record := make([]byte, i+1)
			copy(record, f.pending[:i+1])
			n := copy(f.pending, f.pending[i+1:])
			f.pending = f.pending[:n]

			if !yield(record) {
				return
			}
		}
	}
}

// Feed is FeedRaw with the terminator, and a carriage return directly before
// it, stripped from every record.
func (f *Framer) Feed(chunk []byte) iter.Seq[string] {
	raw := f.FeedRaw(chunk)

	return func(yield func(string) bool) {
		for record := range raw {
			if !yield(string(StripTerminator(record))) {
				return
			}
		}
	}
}

// Pending returns a copy of the buffered partial record.
func (f *Framer) Pending() []byte {
	return bytes.Clone(f.pending)
}

// Buffered returns the number of pending bytes.
func (f *Framer) Buffered() int {
	return len(f.pending)
}

// Reset discards any pending bytes.
func (f *Framer) Reset() {
	f.pending = f.pending[:0]
}

// StripTerminator removes a trailing "\n" and then a trailing "\r".
func StripTerminator(record []byte) []byte {
	record = bytes.TrimSuffix(record, []byte{Terminator})
	return bytes.TrimSuffix(record, []byte{'\r'})
}
