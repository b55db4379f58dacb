package localgit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/releasecut/internal/execshell"
	"github.com/temirov/releasecut/internal/releases/localgit"
)

type recordingGitExecutor struct {
	commands []execshell.CommandDetails
	errors   []error
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, details)
	if len(executor.errors) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	value := executor.errors[0]
	executor.errors = executor.errors[1:]
	return execshell.ExecutionResult{}, value
}

func TestNewShellStasherRequiresExecutor(testInstance *testing.T) {
	stasher, stasherError := localgit.NewShellStasher(nil)
	require.ErrorIs(testInstance, stasherError, localgit.ErrGitExecutorNotConfigured)
	require.Nil(testInstance, stasher)
}

func TestShellStasherStagesThenStashes(testInstance *testing.T) {
	executor := &recordingGitExecutor{}
	stasher, stasherError := localgit.NewShellStasher(executor)
	require.NoError(testInstance, stasherError)

	require.NoError(testInstance, stasher.StashAll(context.Background(), testRepositoryPathConstant))
	require.Len(testInstance, executor.commands, 2)
	require.Equal(testInstance, []string{"add", "--all"}, executor.commands[0].Arguments)
	require.Equal(testInstance, []string{"stash", "push", "--message", "releasecut: stashing changes before cutting a release branch"}, executor.commands[1].Arguments)
	for _, command := range executor.commands {
		require.Equal(testInstance, testRepositoryPathConstant, command.WorkingDirectory)
		require.Equal(testInstance, "0", command.EnvironmentVariables["GIT_TERMINAL_PROMPT"])
	}
}

func TestShellStasherStopsWhenStagingFails(testInstance *testing.T) {
	stagingFailure := errors.New("index.lock exists")
	executor := &recordingGitExecutor{errors: []error{stagingFailure}}
	stasher, stasherError := localgit.NewShellStasher(executor)
	require.NoError(testInstance, stasherError)

	require.ErrorIs(testInstance, stasher.StashAll(context.Background(), testRepositoryPathConstant), stagingFailure)
	require.Len(testInstance, executor.commands, 1)
}
