package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/releasecut/internal/execshell"
)

const (
	genericStartedTemplateConstant          = "Running %s"
	genericCompletedTemplateConstant        = "Completed %s"
	genericFailedTemplateConstant           = "%s failed with exit code %d"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	stagingStartedTemplateConstant          = "Staging all changes in %s"
	stagingCompletedTemplateConstant        = "Staged all changes in %s"
	stashingStartedTemplateConstant         = "Stashing changes in %s"
	stashingCompletedTemplateConstant       = "Changes stashed successfully in %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	currentDirectoryLabelConstant           = "current directory"
	gitAddSubcommandConstant                = "add"
	gitStashSubcommandConstant              = "stash"
)

// CommandEventFormatter builds human-readable messages for command lifecycle events.
// Git staging and stashing get dedicated wording; everything else falls back to the raw command line.
type CommandEventFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandEventFormatter) BuildStartedMessage(command execshell.ShellCommand) string {
	switch formatter.gitSubcommand(command) {
	case gitAddSubcommandConstant:
		return fmt.Sprintf(stagingStartedTemplateConstant, formatter.workingDirectoryLabel(command))
	case gitStashSubcommandConstant:
		return fmt.Sprintf(stashingStartedTemplateConstant, formatter.workingDirectoryLabel(command))
	default:
		return fmt.Sprintf(genericStartedTemplateConstant, formatter.formatCommandLabel(command))
	}
}

// BuildSuccessMessage formats the message describing a command that exited with code zero.
func (formatter CommandEventFormatter) BuildSuccessMessage(command execshell.ShellCommand) string {
	switch formatter.gitSubcommand(command) {
	case gitAddSubcommandConstant:
		return fmt.Sprintf(stagingCompletedTemplateConstant, formatter.workingDirectoryLabel(command))
	case gitStashSubcommandConstant:
		return fmt.Sprintf(stashingCompletedTemplateConstant, formatter.workingDirectoryLabel(command))
	default:
		return fmt.Sprintf(genericCompletedTemplateConstant, formatter.formatCommandLabel(command))
	}
}

// BuildFailureMessage formats the message describing a command that exited with a non-zero code.
func (formatter CommandEventFormatter) BuildFailureMessage(command execshell.ShellCommand, result execshell.ExecutionResult) string {
	baseMessage := fmt.Sprintf(genericFailedTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode)
	trimmedStandardError := strings.TrimSpace(result.StandardError)
	if len(trimmedStandardError) == 0 {
		return baseMessage
	}
	return baseMessage + fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

// BuildExecutionFailureMessage formats the message describing a command that could not run at all.
func (formatter CommandEventFormatter) BuildExecutionFailureMessage(command execshell.ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(genericExecutionFailureTemplateConstant, formatter.formatCommandLabel(command), failureMessage)
}

func (formatter CommandEventFormatter) gitSubcommand(command execshell.ShellCommand) string {
	if command.Name != execshell.CommandGit || len(command.Details.Arguments) == 0 {
		return ""
	}
	return command.Details.Arguments[0]
}

func (formatter CommandEventFormatter) workingDirectoryLabel(command execshell.ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return currentDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandEventFormatter) formatCommandLabel(command execshell.ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory))
}

// ConsoleCommandEventLogger renders command lifecycle events through a zap logger configured for console output.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter CommandEventFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger, formatter: CommandEventFormatter{}}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildStartedMessage(command))
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.logger.Info(eventLogger.formatter.BuildSuccessMessage(command))
		return
	}
	eventLogger.logger.Warn(eventLogger.formatter.BuildFailureMessage(command, result))
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildExecutionFailureMessage(command, failure))
}
