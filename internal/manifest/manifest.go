package manifest

import (
	"errors"
	"fmt"
	"strings"
)

const (
	missingOwnerMessageConstant          = "ownerName is required"
	emptyRepositoriesMessageConstant     = "no repositories are listed"
	missingRepositoryTemplateConstant    = "repositories[%d].repository is required"
	invalidManifestErrorTemplateConstant = "%w: %s"
)

// ErrInvalidManifest indicates the manifest decoded but lacks required fields.
var ErrInvalidManifest = errors.New("invalid manifest")

// RepoEntry identifies one repository and its optional default-branch override.
type RepoEntry struct {
	Repository    string `mapstructure:"repository"`
	DefaultBranch string `mapstructure:"defaultbranch"`
}

// ReleaseConfig is the immutable result of loading a manifest.
type ReleaseConfig struct {
	ownerName    string
	repositories []RepoEntry
}

type releaseConfigDocument struct {
	OwnerName    string      `mapstructure:"ownerName"`
	Repositories []RepoEntry `mapstructure:"repositories"`
}

// NewReleaseConfig builds a ReleaseConfig, trimming values and copying entries.
func NewReleaseConfig(ownerName string, repositories []RepoEntry) ReleaseConfig {
	copiedRepositories := make([]RepoEntry, 0, len(repositories))
	for _, entry := range repositories {
		copiedRepositories = append(copiedRepositories, RepoEntry{
			Repository:    strings.TrimSpace(entry.Repository),
			DefaultBranch: strings.TrimSpace(entry.DefaultBranch),
		})
	}
	return ReleaseConfig{ownerName: strings.TrimSpace(ownerName), repositories: copiedRepositories}
}

// OwnerName returns the account or namespace owning the repositories.
func (configuration ReleaseConfig) OwnerName() string {
	return configuration.ownerName
}

// Repositories returns a copy of the entries in declaration order.
func (configuration ReleaseConfig) Repositories() []RepoEntry {
	return append([]RepoEntry(nil), configuration.repositories...)
}

// WithOwnerName returns a copy whose owner is replaced when ownerName is not blank.
func (configuration ReleaseConfig) WithOwnerName(ownerName string) ReleaseConfig {
	trimmedOwner := strings.TrimSpace(ownerName)
	if len(trimmedOwner) == 0 {
		return configuration
	}
	return NewReleaseConfig(trimmedOwner, configuration.repositories)
}

// Validate reports missing required fields. requireOwner is set by strategies that address repositories remotely.
func (configuration ReleaseConfig) Validate(requireOwner bool) error {
	if requireOwner && len(configuration.ownerName) == 0 {
		return fmt.Errorf(invalidManifestErrorTemplateConstant, ErrInvalidManifest, missingOwnerMessageConstant)
	}
	if len(configuration.repositories) == 0 {
		return fmt.Errorf(invalidManifestErrorTemplateConstant, ErrInvalidManifest, emptyRepositoriesMessageConstant)
	}
	for entryIndex, entry := range configuration.repositories {
		if len(entry.Repository) == 0 {
			return fmt.Errorf(invalidManifestErrorTemplateConstant, ErrInvalidManifest, fmt.Sprintf(missingRepositoryTemplateConstant, entryIndex))
		}
	}
	return nil
}
