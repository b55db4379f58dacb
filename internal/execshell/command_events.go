package execshell

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted is called before the runner is invoked.
	CommandStarted(command ShellCommand)
	// CommandCompleted is called when the runner returned a result, whatever its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed is called when the runner could not produce a result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// CommandEventObservers fans every event out to its members in order. Nil members are skipped and an
// empty set discards events.
type CommandEventObservers []CommandEventObserver

// CommandStarted notifies every member.
func (observers CommandEventObservers) CommandStarted(command ShellCommand) {
	for _, member := range observers {
		if member != nil {
			member.CommandStarted(command)
		}
	}
}

// CommandCompleted notifies every member.
func (observers CommandEventObservers) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, member := range observers {
		if member != nil {
			member.CommandCompleted(command, result)
		}
	}
}

// CommandExecutionFailed notifies every member.
func (observers CommandEventObservers) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, member := range observers {
		if member != nil {
			member.CommandExecutionFailed(command, failure)
		}
	}
}
