// Package githubapi implements remoteapi.Platform on top of the GitHub REST API.
package githubapi
