// Package memory provides in-memory implementations of driven ports.
// They back tests and the --ephemeral flag, where nothing should touch disk.
package memory
