package releases

import (
	"errors"
	"fmt"
)

// RunState names a stage of the input validation state machine.
type RunState string

// Run states in transition order. Aborted and Done are terminal.
const (
	StateAwaitingConfig RunState = RunState("awaiting-config")
	StateAwaitingDate   RunState = RunState("awaiting-date")
	StateAwaitingToken  RunState = RunState("awaiting-token")
	StateProcessing     RunState = RunState("processing")
	StateDone           RunState = RunState("done")
	StateAborted        RunState = RunState("aborted")
)

const (
	startupErrorTemplateConstant      = "%s: %v"
	configurationStageLabelConstant   = "configuration error"
	releaseDateStageLabelConstant     = "release date error"
	accessTokenStageLabelConstant     = "access token error"
	unknownStageLabelConstant         = "startup error"
	accessTokenMissingMessageConstant = "access token is empty"
)

// ErrAccessTokenMissing indicates the token provider returned an empty token.
var ErrAccessTokenMissing = errors.New(accessTokenMissingMessageConstant)

// StartupError reports a fatal validation failure. State is the stage that failed.
type StartupError struct {
	State RunState
	Cause error
}

// Error describes the failure with a stage-specific prefix.
func (startupError StartupError) Error() string {
	return fmt.Sprintf(startupErrorTemplateConstant, stageLabel(startupError.State), startupError.Cause)
}

// Unwrap exposes the underlying cause.
func (startupError StartupError) Unwrap() error {
	return startupError.Cause
}

func stageLabel(state RunState) string {
	switch state {
	case StateAwaitingConfig:
		return configurationStageLabelConstant
	case StateAwaitingDate:
		return releaseDateStageLabelConstant
	case StateAwaitingToken:
		return accessTokenStageLabelConstant
	default:
		return unknownStageLabelConstant
	}
}
