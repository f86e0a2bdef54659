// Package cli constructs the rebase-branches command-line interface, wiring
// the Cobra command, configuration loader, and structured logging primitives.
// It exposes helpers to build reusable application instances and to execute
// the default command as a reusable library.
package cli
