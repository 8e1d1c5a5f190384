package tui

import "errors"

// ErrMissingAcquisitionService is returned when the acquisition service is not provided.
var ErrMissingAcquisitionService = errors.New("tui: acquisition service is required")

// ErrInvalidPorts is returned when no ports are provided.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

// ErrCaptureUnavailable is shown when recording is requested without a capture service.
var ErrCaptureUnavailable = errors.New("capture is not available")

// ErrStopFirst is shown when the port or baud is changed while reading.
var ErrStopFirst = errors.New("stop acquisition before changing port or baud")
