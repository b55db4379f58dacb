package pathutils_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/releasecut/internal/utils/path"
)

const (
	testHomeDirectoryConstant = "/home/operator"
	testRepositoryConstant    = "billing"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpander(func() (string, error) { return testHomeDirectoryConstant, nil })

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare_tilde", input: "~", expected: testHomeDirectoryConstant},
		{name: "tilde_slash", input: "~/src/billing", expected: filepath.Join(testHomeDirectoryConstant, "src", "billing")},
		{name: "other_user", input: "~alice/src", expected: "~alice/src"},
		{name: "absolute", input: "/srv/repos", expected: "/srv/repos"},
		{name: "relative", input: "repos", expected: "repos"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderLookupFailureLeavesInput(testInstance *testing.T) {
	callCount := 0
	expander := pathutils.NewHomeExpander(func() (string, error) {
		callCount++
		return "", errors.New("no home")
	})

	require.Equal(testInstance, "~/src", expander.Expand("~/src"))
	require.Equal(testInstance, "~", expander.Expand("~"))
	require.Equal(testInstance, 1, callCount)
}

func TestRepositoryLocatorLocate(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()
	repositoryDirectory := filepath.Join(rootDirectory, testRepositoryConstant)
	require.NoError(testInstance, os.Mkdir(repositoryDirectory, 0o755))
	filePath := filepath.Join(rootDirectory, "notes.txt")
	require.NoError(testInstance, os.WriteFile(filePath, []byte("x"), 0o600))

	locator, locatorError := pathutils.NewRepositoryLocator(rootDirectory, pathutils.NewHomeExpander(func() (string, error) { return rootDirectory, nil }))
	require.NoError(testInstance, locatorError)
	require.Equal(testInstance, rootDirectory, locator.RootDirectory())

	located, locateError := locator.Locate(testRepositoryConstant)
	require.NoError(testInstance, locateError)
	require.Equal(testInstance, repositoryDirectory, located)

	homeLocated, homeError := locator.Locate("~/" + testRepositoryConstant)
	require.NoError(testInstance, homeError)
	require.Equal(testInstance, repositoryDirectory, homeLocated)

	absoluteLocated, absoluteError := locator.Locate(repositoryDirectory)
	require.NoError(testInstance, absoluteError)
	require.Equal(testInstance, repositoryDirectory, absoluteLocated)

	_, missingError := locator.Locate("ledger")
	require.ErrorIs(testInstance, missingError, pathutils.ErrRepositoryNotFound)

	_, fileError := locator.Locate("notes.txt")
	require.ErrorIs(testInstance, fileError, pathutils.ErrRepositoryNotFound)

	_, emptyError := locator.Locate("  ")
	require.Error(testInstance, emptyError)
}
