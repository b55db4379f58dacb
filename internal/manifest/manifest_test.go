package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/releasecut/internal/manifest"
)

const (
	listManifestJSONConstant = `[
  {"repository": "payments-api", "defaultbranch": "develop"},
  {"repository": "payments-web"}
]`
	objectManifestJSONConstant = `{
  "ownerName": "acme",
  "repositories": [{"repository": "payments-api"}, {"repository": "payments-web", "defaultBranch": "main"}]
}`
	objectManifestYAMLConstant = `ownerName: acme
repositories:
  - repository: payments-api
  - repository: payments-web
    defaultbranch: main
`
	objectManifestTOMLConstant = `ownerName = "acme"

[[repositories]]
repository = "payments-api"

[[repositories]]
repository = "payments-web"
defaultbranch = "main"
`
)

func writeManifest(testInstance *testing.T, fileName string, contents string) string {
	testInstance.Helper()
	manifestPath := filepath.Join(testInstance.TempDir(), fileName)
	require.NoError(testInstance, os.WriteFile(manifestPath, []byte(contents), 0o600))
	return manifestPath
}

func TestLoadSupportedFormats(testInstance *testing.T) {
	objectRepositories := []manifest.RepoEntry{
		{Repository: "payments-api"},
		{Repository: "payments-web", DefaultBranch: "main"},
	}

	testCases := []struct {
		name                 string
		fileName             string
		contents             string
		expectedOwner        string
		expectedRepositories []manifest.RepoEntry
	}{
		{
			name:     "json_list",
			fileName: "configs.json",
			contents: listManifestJSONConstant,
			expectedRepositories: []manifest.RepoEntry{
				{Repository: "payments-api", DefaultBranch: "develop"},
				{Repository: "payments-web"},
			},
		},
		{
			name:                 "json_object",
			fileName:             "configs.json",
			contents:             objectManifestJSONConstant,
			expectedOwner:        "acme",
			expectedRepositories: objectRepositories,
		},
		{
			name:                 "yaml_object",
			fileName:             "configs.yml",
			contents:             objectManifestYAMLConstant,
			expectedOwner:        "acme",
			expectedRepositories: objectRepositories,
		},
		{
			name:                 "toml_object",
			fileName:             "configs.toml",
			contents:             objectManifestTOMLConstant,
			expectedOwner:        "acme",
			expectedRepositories: objectRepositories,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configuration, loadError := manifest.Load(writeManifest(testInstance, testCase.fileName, testCase.contents))
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedOwner, configuration.OwnerName())
			require.Equal(testInstance, testCase.expectedRepositories, configuration.Repositories())
		})
	}
}

func TestLoadFailures(testInstance *testing.T) {
	_, missingError := manifest.Load(filepath.Join(testInstance.TempDir(), "configs.json"))
	require.ErrorIs(testInstance, missingError, manifest.ErrManifestNotFound)

	_, extensionError := manifest.Load(writeManifest(testInstance, "configs.ini", "x=1"))
	require.Error(testInstance, extensionError)
	require.Contains(testInstance, extensionError.Error(), ".ini")

	_, syntaxError := manifest.Load(writeManifest(testInstance, "configs.json", "{"))
	require.Error(testInstance, syntaxError)

	_, shapeError := manifest.Load(writeManifest(testInstance, "configs.json", `"payments-api"`))
	require.Error(testInstance, shapeError)
}

func TestReleaseConfigValidate(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configuration manifest.ReleaseConfig
		requireOwner  bool
		expectError   bool
	}{
		{
			name:          "local_without_owner",
			configuration: manifest.NewReleaseConfig("", []manifest.RepoEntry{{Repository: "payments-api"}}),
		},
		{
			name:          "remote_requires_owner",
			configuration: manifest.NewReleaseConfig(" ", []manifest.RepoEntry{{Repository: "payments-api"}}),
			requireOwner:  true,
			expectError:   true,
		},
		{
			name:          "no_repositories",
			configuration: manifest.NewReleaseConfig("acme", nil),
			expectError:   true,
		},
		{
			name:          "blank_repository",
			configuration: manifest.NewReleaseConfig("acme", []manifest.RepoEntry{{Repository: "payments-api"}, {Repository: "  "}}),
			requireOwner:  true,
			expectError:   true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			validationError := testCase.configuration.Validate(testCase.requireOwner)
			if testCase.expectError {
				require.ErrorIs(testInstance, validationError, manifest.ErrInvalidManifest)
				return
			}
			require.NoError(testInstance, validationError)
		})
	}
}

func TestReleaseConfigIsImmutable(testInstance *testing.T) {
	entries := []manifest.RepoEntry{{Repository: "payments-api"}}
	configuration := manifest.NewReleaseConfig("acme", entries)
	entries[0].Repository = "mutated"

	returned := configuration.Repositories()
	returned[0].Repository = "mutated"

	require.Equal(testInstance, "payments-api", configuration.Repositories()[0].Repository)

	overridden := configuration.WithOwnerName("globex")
	require.Equal(testInstance, "globex", overridden.OwnerName())
	require.Equal(testInstance, "acme", configuration.OwnerName())
	require.Equal(testInstance, configuration, configuration.WithOwnerName(""))
}
