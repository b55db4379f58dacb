// Package githubauth resolves the access token used for git transport and platform APIs.
package githubauth
