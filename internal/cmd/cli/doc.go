// Package cli contains the Cobra commands of the cliphist binary.
//
// Settings resolve in order defaults < config file < CLIPHIST_* environment
// < command-line flags. Every command that touches the history opens the
// database, runs one operation and closes it again.
package cli
