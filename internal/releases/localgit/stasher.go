package localgit

import (
	"context"

	"github.com/temirov/releasecut/internal/execshell"
)

const (
	gitAddSubcommandConstant            = "add"
	gitAddAllFlagConstant               = "--all"
	gitStashSubcommandConstant          = "stash"
	gitStashPushSubcommandConstant      = "push"
	gitStashMessageFlagConstant         = "--message"
	gitStashMessageConstant             = "releasecut: stashing changes before cutting a release branch"
	gitTerminalPromptEnvironmentName    = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisable = "0"
)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Stasher stages and stashes pending modifications.
type Stasher interface {
	StashAll(executionContext context.Context, repositoryPath string) error
}

// ShellStasher runs "git add --all" followed by "git stash push".
type ShellStasher struct {
	executor GitExecutor
}

// NewShellStasher constructs a ShellStasher.
func NewShellStasher(executor GitExecutor) (*ShellStasher, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &ShellStasher{executor: executor}, nil
}

// StashAll leaves the stash in place; a clean tree produces no stash entry.
func (stasher *ShellStasher) StashAll(executionContext context.Context, repositoryPath string) error {
	if addError := stasher.executeGit(executionContext, repositoryPath, gitAddSubcommandConstant, gitAddAllFlagConstant); addError != nil {
		return addError
	}
	return stasher.executeGit(executionContext, repositoryPath, gitStashSubcommandConstant, gitStashPushSubcommandConstant, gitStashMessageFlagConstant, gitStashMessageConstant)
}

func (stasher *ShellStasher) executeGit(executionContext context.Context, repositoryPath string, arguments ...string) error {
	_, executionError := stasher.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     repositoryPath,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentName: gitTerminalPromptEnvironmentDisable},
	})
	return executionError
}
