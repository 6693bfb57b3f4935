// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates the beamgrid commands and flags into the application's
// configuration without running anything itself.
package cli
