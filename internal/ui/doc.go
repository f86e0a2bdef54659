// Package ui provides helpers for operator-facing console output.
//
// The helpers echo shell commands before they run so a batch operation stays
// transparent about what it does to the repository, while detailed telemetry
// continues to flow through structured loggers.
package ui
