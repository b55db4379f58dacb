package execshell_test

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/releasecut/internal/execshell"
)

func TestOSCommandRunnerReportsExitCode(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("git"); lookupError != nil {
		testInstance.Skip("git executable not available")
	}

	runner := execshell.NewOSCommandRunner()
	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"rev-parse", "--is-inside-work-tree"}, WorkingDirectory: testInstance.TempDir()},
	})
	require.NoError(testInstance, runError)
	require.NotZero(testInstance, result.ExitCode)
	require.NotEmpty(testInstance, result.StandardError)
}

func TestOSCommandRunnerReturnsErrorForMissingExecutable(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()
	_, runError := runner.Run(context.Background(), execshell.ShellCommand{Name: execshell.CommandName("releasecut-missing-binary")})
	require.Error(testInstance, runError)

	startError := runner.Start(execshell.ShellCommand{Name: execshell.CommandName("releasecut-missing-binary")})
	require.Error(testInstance, startError)
}
