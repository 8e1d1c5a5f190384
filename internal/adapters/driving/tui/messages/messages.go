// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"time"

	"github.com/custodia-labs/serplot/internal/core/domain"
)

// Tick asks the app to take a new snapshot.
type Tick struct {
	Time time.Time
}

// PortsLoaded carries the selectable ports.
type PortsLoaded struct {
	Ports []domain.PortInfo
	Err   error
}

// AcquisitionStarted reports the result of a start request.
type AcquisitionStarted struct {
	Serial domain.SerialSettings
	Err    error
}

// AcquisitionStopped reports the result of a stop request.
type AcquisitionStopped struct {
	Err error
}

// CaptureChanged reports a capture session starting or ending.
// Session is nil once recording has ended.
type CaptureChanged struct {
	Session *domain.CaptureSession
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
