package domain

import (
	"strings"
	"time"
)

// PortKind classifies where a port's data comes from.
type PortKind string

// Available port kinds.
const (
	PortKindSerial    PortKind = "serial"
	PortKindSynthetic PortKind = "synthetic"
	PortKindFile      PortKind = "file"
	PortKindStdin     PortKind = "stdin"
)

// PortInfo describes one selectable data source.
type PortInfo struct {
	// ID is the identifier passed back when opening the port.
	ID string

	// Label is a human-readable description.
	Label string

	// Kind is where the data comes from.
	Kind PortKind
}

// KindOf classifies a port identifier.
func KindOf(id string) PortKind {
	switch {
	case id == PortSynthetic:
		return PortKindSynthetic
	case id == PortStdin:
		return PortKindStdin
	case strings.HasPrefix(id, PortFilePrefix):
		return PortKindFile
	default:
		return PortKindSerial
	}
}

// AcquisitionStatus reports the state of the read loop.
type AcquisitionStatus struct {
	// Running is true while the read loop is active.
	Running bool

	// Port and Baud are the settings of the current or last run.
	Port string
	Baud Baud

	// StartedAt is when the current or last run began.
	StartedAt time.Time

	// BytesRead counts raw bytes received from the transport.
	BytesRead int64

	// RecordsIngested counts records that produced at least one value.
	RecordsIngested int64

	// EmptyRecords counts blank records.
	EmptyRecords int64

	// ParseErrors counts records dropped for a malformed field.
	ParseErrors int64

	// LastError is the most recent error message, if any.
	LastError string

	// SeriesCount is the number of live series.
	SeriesCount int

	// Position is the next shared position.
	Position int64
}
