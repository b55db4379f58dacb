package cut

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/releasecut/internal/browser"
	"github.com/temirov/releasecut/internal/execshell"
	"github.com/temirov/releasecut/internal/githubapi"
	"github.com/temirov/releasecut/internal/githubauth"
	"github.com/temirov/releasecut/internal/gitlabapi"
	"github.com/temirov/releasecut/internal/manifest"
	"github.com/temirov/releasecut/internal/prompt"
	"github.com/temirov/releasecut/internal/releases"
	"github.com/temirov/releasecut/internal/releases/localgit"
	"github.com/temirov/releasecut/internal/releases/remoteapi"
	"github.com/temirov/releasecut/internal/ui"
	"github.com/temirov/releasecut/internal/utils/flags"
	pathutils "github.com/temirov/releasecut/internal/utils/path"
)

const (
	commandUseConstant                 = "cut"
	commandShortDescriptionConstant    = "Cut a dated release branch in every configured repository"
	commandLongDescriptionConstant     = "cut reads the repository manifest, asks for the production push date and creates the release branch for each repository, printing a compare link per success and a summary of failures."
	dateFlagNameConstant               = "date"
	dateFlagUsageConstant              = "Release date; skips the interactive prompt (e.g. 04.07.2022)."
	strategyFlagNameConstant           = "strategy"
	strategyFlagDescriptionConstant    = "How release branches are created."
	manifestFlagNameConstant           = "manifest"
	manifestFlagUsageConstant          = "Path to the repository manifest (JSON, YAML or TOML)."
	ownerFlagNameConstant              = "owner"
	ownerFlagUsageConstant             = "Owner or group of the repositories; overrides the manifest."
	workflowFlagNameConstant           = "workflow"
	workflowFlagUsageConstant          = "Workflow file name or id triggered by the dispatch strategy."
	platformFlagNameConstant           = "platform"
	platformFlagDescriptionConstant    = "Hosting platform used by remote strategies and compare links."
	noBrowserFlagNameConstant          = "no-browser"
	noBrowserFlagUsageConstant         = "Print compare links without opening them."
	strategyBuildErrorTemplateConstant = "unable to configure %s strategy: %w"
	linkBuilderErrorTemplateConstant   = "unable to configure compare links: %w"
	openerErrorTemplateConstant        = "unable to configure browser: %w"
	cutterErrorTemplateConstant        = "unable to configure release cutter: %w"
	executorErrorTemplateConstant      = "unable to construct git executor: %w"
	locatorErrorTemplateConstant       = "unable to resolve repositories root: %w"
	runCompletedMessageConstant        = "Release cut finished"
	logFieldStrategyConstant           = "strategy"
	logFieldPlatformConstant           = "platform"
	logFieldFailedCountConstant        = "failed_repositories"
	logFieldAttemptedCountConstant     = "attempted_repositories"
)

// LoggerProvider yields the logger configured by the root command.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the cut command. Unset collaborators fall back to production implementations.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	EnvironmentLookup            githubauth.EnvironmentLookup
	GitAccessor                  localgit.GitAccessor
	GitExecutor                  localgit.GitExecutor
	PlatformFactory              remoteapi.PlatformFactory
	Opener                       releases.URLOpener
}

// Build constructs the cut command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(dateFlagNameConstant, "", dateFlagUsageConstant)
	command.Flags().String(strategyFlagNameConstant, "", flags.FormatChoiceUsage(StrategyLocal, StrategyChoices, strategyFlagDescriptionConstant))
	command.Flags().String(manifestFlagNameConstant, "", manifestFlagUsageConstant)
	command.Flags().String(ownerFlagNameConstant, "", ownerFlagUsageConstant)
	command.Flags().String(workflowFlagNameConstant, "", workflowFlagUsageConstant)
	command.Flags().String(platformFlagNameConstant, "", flags.FormatChoiceUsage(PlatformGitHub, PlatformChoices, platformFlagDescriptionConstant))
	command.Flags().Bool(noBrowserFlagNameConstant, false, noBrowserFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	output := command.OutOrStdout()
	reporter := releases.NewWriterReporter(output)
	strategy, strategyError := builder.buildStrategy(configuration, reporter, logger)
	if strategyError != nil {
		return fmt.Errorf(strategyBuildErrorTemplateConstant, configuration.Strategy, strategyError)
	}

	linkBuilder, linkError := releases.NewCompareLinkBuilder(configuration.ResolvedCompareURLTemplate(), configuration.ResolvedWebURL())
	if linkError != nil {
		return fmt.Errorf(linkBuilderErrorTemplateConstant, linkError)
	}

	opener, openerError := builder.resolveOpener(logger)
	if openerError != nil {
		return fmt.Errorf(openerErrorTemplateConstant, openerError)
	}

	cutter, cutterError := releases.NewCutter(releases.CutterDependencies{
		Strategy:    strategy,
		LinkBuilder: linkBuilder,
		Opener:      opener,
		Output:      output,
		Logger:      logger,
	}, releases.Settings{OpenBrowser: configuration.OpenBrowser, ColorOutput: configuration.Color})
	if cutterError != nil {
		return fmt.Errorf(cutterErrorTemplateConstant, cutterError)
	}

	report, runError := cutter.Run(command.Context(), builder.runInputs(command, configuration))
	if runError != nil {
		return runError
	}

	logger.Info(
		runCompletedMessageConstant,
		zap.String(logFieldStrategyConstant, configuration.Strategy),
		zap.String(logFieldPlatformConstant, configuration.Platform),
		zap.Int(logFieldAttemptedCountConstant, len(report.Results)),
		zap.Int(logFieldFailedCountConstant, len(report.Ledger.Repositories())),
	)
	return nil
}

func (builder *CommandBuilder) runInputs(command *cobra.Command, configuration CommandConfiguration) releases.RunInputs {
	dateValue, _ := command.Flags().GetString(dateFlagNameConstant)
	tokenResolver := githubauth.NewTokenResolver(configuration.TokenVariable, builder.EnvironmentLookup)

	return releases.RunInputs{
		Configuration: func() (manifest.ReleaseConfig, error) {
			releaseConfig, loadError := manifest.Load(configuration.Manifest)
			if loadError != nil {
				return manifest.ReleaseConfig{}, loadError
			}
			if len(configuration.Owner) > 0 {
				releaseConfig = releaseConfig.WithOwnerName(configuration.Owner)
			}
			return releaseConfig, nil
		},
		ReleaseDate: func(executionContext context.Context) (string, error) {
			if command.Flags().Changed(dateFlagNameConstant) {
				return dateValue, nil
			}
			return prompt.NewLinePrompter(command.InOrStdin(), command.OutOrStdout()).AskReleaseDate(executionContext)
		},
		Token: tokenResolver.ResolveToken,
	}
}

func (builder *CommandBuilder) buildStrategy(configuration CommandConfiguration, reporter releases.Reporter, logger *zap.Logger) (releases.BranchStrategy, error) {
	switch configuration.Strategy {
	case StrategyRemote, StrategyDispatch:
		branchNamer, namerError := releases.NewBranchNamer(configuration.RemoteBranchTemplate)
		if namerError != nil {
			return nil, namerError
		}
		factory := builder.resolvePlatformFactory(configuration)
		if configuration.Strategy == StrategyDispatch {
			if configuration.Platform == PlatformGitHub && len(strings.TrimSpace(configuration.Workflow)) == 0 {
				return nil, githubapi.ErrWorkflowRequired
			}
			return remoteapi.NewWorkflowDispatchStrategy(factory, branchNamer, configuration.Workflow)
		}
		return remoteapi.NewBranchCreationStrategy(factory, branchNamer)
	default:
		branchNamer, namerError := releases.NewBranchNamer(configuration.LocalBranchTemplate)
		if namerError != nil {
			return nil, namerError
		}
		locator, locatorError := pathutils.NewRepositoryLocator(configuration.RepositoriesRoot, pathutils.NewHomeExpander(nil))
		if locatorError != nil {
			return nil, fmt.Errorf(locatorErrorTemplateConstant, locatorError)
		}
		gitExecutor, executorError := builder.resolveGitExecutor(logger)
		if executorError != nil {
			return nil, fmt.Errorf(executorErrorTemplateConstant, executorError)
		}
		stasher, stasherError := localgit.NewShellStasher(gitExecutor)
		if stasherError != nil {
			return nil, stasherError
		}
		accessor := builder.GitAccessor
		if accessor == nil {
			accessor = localgit.NewGoGitAccessor()
		}
		return localgit.NewStrategy(localgit.Dependencies{
			Accessor:    accessor,
			Stasher:     stasher,
			Locator:     locator,
			BranchNamer: branchNamer,
			Reporter:    reporter,
			Logger:      logger,
		})
	}
}

func (builder *CommandBuilder) resolvePlatformFactory(configuration CommandConfiguration) remoteapi.PlatformFactory {
	if builder.PlatformFactory != nil {
		return builder.PlatformFactory
	}
	if configuration.Platform == PlatformGitLab {
		return gitlabapi.NewPlatformFactory(gitlabapi.Options{BaseURL: configuration.APIURL})
	}
	return githubapi.NewPlatformFactory(githubapi.Options{BaseURL: configuration.APIURL})
}

func (builder *CommandBuilder) resolveGitExecutor(logger *zap.Logger) (localgit.GitExecutor, error) {
	if builder.GitExecutor != nil {
		return builder.GitExecutor, nil
	}
	var observers []execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		observers = append(observers, ui.NewConsoleCommandEventLogger(builder.resolveConsoleLogger(logger)))
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), observers...)
}

func (builder *CommandBuilder) resolveOpener(logger *zap.Logger) (releases.URLOpener, error) {
	if builder.Opener != nil {
		return builder.Opener, nil
	}
	return browser.NewOpener(execshell.NewOSCommandRunner(), logger)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// resolveConsoleLogger returns the operator-facing logger, falling back to the diagnostic one.
func (builder *CommandBuilder) resolveConsoleLogger(fallback *zap.Logger) *zap.Logger {
	if builder.ConsoleLoggerProvider == nil {
		return fallback
	}
	if consoleLogger := builder.ConsoleLoggerProvider(); consoleLogger != nil {
		return consoleLogger
	}
	return fallback
}

// resolveConfiguration layers changed flags over the configuration file and validates the choices.
func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	commandFlags := command.Flags()
	stringOverrides := []struct {
		flagName string
		target   *string
	}{
		{flagName: strategyFlagNameConstant, target: &configuration.Strategy},
		{flagName: manifestFlagNameConstant, target: &configuration.Manifest},
		{flagName: ownerFlagNameConstant, target: &configuration.Owner},
		{flagName: workflowFlagNameConstant, target: &configuration.Workflow},
		{flagName: platformFlagNameConstant, target: &configuration.Platform},
	}
	for _, override := range stringOverrides {
		if commandFlags.Changed(override.flagName) {
			flagValue, _ := commandFlags.GetString(override.flagName)
			*override.target = flagValue
		}
	}
	if commandFlags.Changed(noBrowserFlagNameConstant) {
		noBrowser, _ := commandFlags.GetBool(noBrowserFlagNameConstant)
		configuration.OpenBrowser = !noBrowser
	}

	configuration = configuration.Sanitize()

	strategyName, strategyError := flags.ParseChoice(strategyFlagNameConstant, configuration.Strategy, StrategyLocal, StrategyChoices)
	if strategyError != nil {
		return CommandConfiguration{}, strategyError
	}
	platformName, platformError := flags.ParseChoice(platformFlagNameConstant, configuration.Platform, PlatformGitHub, PlatformChoices)
	if platformError != nil {
		return CommandConfiguration{}, platformError
	}
	configuration.Strategy = strategyName
	configuration.Platform = strings.ToLower(platformName)
	return configuration, nil
}
