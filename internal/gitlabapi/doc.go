// Package gitlabapi implements the remote release strategies against the GitLab REST API.
package gitlabapi
