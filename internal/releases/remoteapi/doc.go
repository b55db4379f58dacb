// Package remoteapi cuts release branches through a hosted git platform API.
//
// BranchCreationStrategy creates the release ref directly. WorkflowDispatchStrategy asks the platform to
// run an automation that creates it server-side. Platform hides the concrete REST client.
package remoteapi
