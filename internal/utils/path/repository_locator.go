package pathutils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	repositoryMissingErrorTemplateConstant   = "%w: %s"
	repositoryNotDirectoryTemplateConstant   = "%w: %s is not a directory"
	repositoryIdentifierEmptyMessageConstant = "repository identifier is empty"
)

// ErrRepositoryNotFound indicates the resolved checkout directory does not exist.
var ErrRepositoryNotFound = errors.New("repository not found")

// RepositoryLocator maps manifest repository identifiers to checkout directories under a fixed root.
type RepositoryLocator struct {
	rootDirectory string
	homeExpander  *HomeExpander
}

// NewRepositoryLocator builds a locator rooted at rootDirectory. The root is expanded and made absolute once,
// so later working-directory changes do not affect resolution.
func NewRepositoryLocator(rootDirectory string, homeExpander *HomeExpander) (*RepositoryLocator, error) {
	if homeExpander == nil {
		homeExpander = NewHomeExpander(nil)
	}
	absoluteRoot, absoluteError := filepath.Abs(homeExpander.Expand(strings.TrimSpace(rootDirectory)))
	if absoluteError != nil {
		return nil, absoluteError
	}
	return &RepositoryLocator{rootDirectory: absoluteRoot, homeExpander: homeExpander}, nil
}

// RootDirectory reports the absolute root used for relative identifiers.
func (locator *RepositoryLocator) RootDirectory() string {
	return locator.rootDirectory
}

// Locate returns the checkout directory for repositoryIdentifier. Absolute and "~" identifiers bypass the root.
func (locator *RepositoryLocator) Locate(repositoryIdentifier string) (string, error) {
	trimmedIdentifier := strings.TrimSpace(repositoryIdentifier)
	if len(trimmedIdentifier) == 0 {
		return "", errors.New(repositoryIdentifierEmptyMessageConstant)
	}

	candidatePath := locator.homeExpander.Expand(trimmedIdentifier)
	if !filepath.IsAbs(candidatePath) {
		candidatePath = filepath.Join(locator.rootDirectory, candidatePath)
	}

	information, statError := os.Stat(candidatePath)
	if statError != nil {
		if errors.Is(statError, os.ErrNotExist) {
			return "", fmt.Errorf(repositoryMissingErrorTemplateConstant, ErrRepositoryNotFound, candidatePath)
		}
		return "", statError
	}
	if !information.IsDir() {
		return "", fmt.Errorf(repositoryNotDirectoryTemplateConstant, ErrRepositoryNotFound, candidatePath)
	}
	return filepath.Clean(candidatePath), nil
}
