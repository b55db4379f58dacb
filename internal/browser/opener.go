package browser

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/releasecut/internal/execshell"
)

const (
	darwinOperatingSystemConstant  = "darwin"
	windowsOperatingSystemConstant = "windows"
	darwinLauncherConstant         = "open"
	windowsLauncherConstant        = "cmd"
	unixLauncherConstant           = "xdg-open"
	windowsStartFlagConstant       = "/c"
	windowsStartCommandConstant    = "start"
	windowsStartTitleConstant      = ""
	launchErrorTemplateConstant    = "launching %s: %w"
	openingLinkMessageConstant     = "Opening link in browser"
	logFieldURLConstant            = "url"
	logFieldLauncherConstant       = "launcher"
)

var (
	// ErrLauncherNotConfigured indicates the opener was built without a process launcher.
	ErrLauncherNotConfigured = errors.New("browser launcher not configured")
	// ErrEmptyURL indicates an empty link was supplied.
	ErrEmptyURL = errors.New("url is empty")
)

// ProcessLauncher starts a detached process.
type ProcessLauncher interface {
	Start(command execshell.ShellCommand) error
}

// Opener launches the platform's URL handler.
type Opener struct {
	launcher        ProcessLauncher
	operatingSystem string
	logger          *zap.Logger
}

// NewOpener builds an opener for the current operating system.
func NewOpener(launcher ProcessLauncher, logger *zap.Logger) (*Opener, error) {
	return NewOpenerForOperatingSystem(runtime.GOOS, launcher, logger)
}

// NewOpenerForOperatingSystem builds an opener for operatingSystem, a runtime.GOOS value.
func NewOpenerForOperatingSystem(operatingSystem string, launcher ProcessLauncher, logger *zap.Logger) (*Opener, error) {
	if launcher == nil {
		return nil, ErrLauncherNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{launcher: launcher, operatingSystem: operatingSystem, logger: logger}, nil
}

// Open hands url to the platform launcher without waiting for the browser.
func (opener *Opener) Open(executionContext context.Context, url string) error {
	trimmedURL := strings.TrimSpace(url)
	if len(trimmedURL) == 0 {
		return ErrEmptyURL
	}
	if executionContext != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
	}

	command := opener.launchCommand(trimmedURL)
	opener.logger.Debug(openingLinkMessageConstant, zap.String(logFieldURLConstant, trimmedURL), zap.String(logFieldLauncherConstant, string(command.Name)))
	if startError := opener.launcher.Start(command); startError != nil {
		return fmt.Errorf(launchErrorTemplateConstant, command.Name, startError)
	}
	return nil
}

func (opener *Opener) launchCommand(url string) execshell.ShellCommand {
	switch opener.operatingSystem {
	case darwinOperatingSystemConstant:
		return execshell.ShellCommand{Name: darwinLauncherConstant, Details: execshell.CommandDetails{Arguments: []string{url}}}
	case windowsOperatingSystemConstant:
		return execshell.ShellCommand{
			Name:    windowsLauncherConstant,
			Details: execshell.CommandDetails{Arguments: []string{windowsStartFlagConstant, windowsStartCommandConstant, windowsStartTitleConstant, url}},
		}
	default:
		return execshell.ShellCommand{Name: unixLauncherConstant, Details: execshell.CommandDetails{Arguments: []string{url}}}
	}
}
