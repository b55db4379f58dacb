// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle
// observers, OSCommandRunner is the os/exec backed default, and the remaining
// types describe commands and their results so that callers can be tested
// against recording runners instead of real processes.
package execshell
