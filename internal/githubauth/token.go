package githubauth

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// EnvGitHubToken is the environment variable consulted when no other name is configured.
const EnvGitHubToken = "GITHUB_TOKEN"

const missingTokenErrorTemplateConstant = "%w: environment variable %s is not set"

// ErrTokenNotFound indicates the configured environment variable is absent or blank.
var ErrTokenNotFound = errors.New("access token not found")

// EnvironmentLookup mirrors os.LookupEnv.
type EnvironmentLookup func(string) (string, bool)

// TokenResolver reads a bearer token from a single named environment variable.
type TokenResolver struct {
	variableName string
	lookup       EnvironmentLookup
}

// NewTokenResolver builds a resolver for variableName. Empty names fall back to GITHUB_TOKEN and
// a nil lookup falls back to the process environment.
func NewTokenResolver(variableName string, lookup EnvironmentLookup) *TokenResolver {
	trimmedName := strings.TrimSpace(variableName)
	if len(trimmedName) == 0 {
		trimmedName = EnvGitHubToken
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &TokenResolver{variableName: trimmedName, lookup: lookup}
}

// VariableName reports the environment variable the resolver consults.
func (resolver *TokenResolver) VariableName() string {
	return resolver.variableName
}

// ResolveToken returns the trimmed token or ErrTokenNotFound.
func (resolver *TokenResolver) ResolveToken() (string, error) {
	value, exists := resolver.lookup(resolver.variableName)
	if !exists {
		return "", fmt.Errorf(missingTokenErrorTemplateConstant, ErrTokenNotFound, resolver.variableName)
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return "", fmt.Errorf(missingTokenErrorTemplateConstant, ErrTokenNotFound, resolver.variableName)
	}
	return value, nil
}
