// Package gitrepo parses git remote URLs into host, owner and repository parts.
package gitrepo
