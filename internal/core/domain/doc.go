// Package domain defines the core entities for serplot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Point: One (position, value) sample in a series
//   - WindowPolicy: How a series bounds its history
//   - Snapshot: A consistent copy of every series for rendering
//   - SerialSettings: Which device to read and at what baud
//   - CaptureSession: A recorded run of raw records
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
