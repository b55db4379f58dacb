// Package ui formats shell command lifecycle events for operators.
//
// Staging and stashing steps of a local release cut are reported in plain
// language; other commands fall back to their literal command line.
package ui
