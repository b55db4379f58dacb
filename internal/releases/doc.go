// Package releases drives a release-branch cut across the repositories of a manifest.
//
// Cutter validates its inputs in a fixed order (configuration, release date, access token), then hands
// every repository to a BranchStrategy in declaration order. Strategy errors are recorded in a
// FailureLedger and never stop the run.
package releases
