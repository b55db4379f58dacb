// Package cli constructs the releasecut command-line interface, wiring the
// Cobra command hierarchy, the layered configuration loader and structured
// logging before handing control to the cut command.
package cli
