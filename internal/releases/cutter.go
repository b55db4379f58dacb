package releases

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/releasecut/internal/manifest"
	"github.com/temirov/releasecut/internal/releasedate"
)

const (
	strategyMissingMessageConstant      = "branch strategy not configured"
	configurationProviderMissingMessage = "configuration provider not configured"
	releaseDateProviderMissingMessage   = "release date provider not configured"
	tokenProviderMissingMessage         = "token provider not configured"
	unknownOutcomeMessageConstant       = "strategy reported no outcome"
	repositoryFailedLogMessageConstant  = "Release cut failed"
	repositoryCutLogMessageConstant     = "Release cut finished"
	browserOpenFailedLogMessageConstant = "Unable to open compare link"
	runAbortedLogMessageConstant        = "Release run aborted"
	repositoryLogFieldConstant          = "repository"
	outcomeLogFieldConstant             = "outcome"
	releaseBranchLogFieldConstant       = "release_branch"
	compareURLLogFieldConstant          = "compare_url"
	stateLogFieldConstant               = "state"
	strategyLogFieldConstant            = "strategy"
)

// ErrStrategyNotConfigured indicates the Cutter was built without a strategy.
var ErrStrategyNotConfigured = errors.New(strategyMissingMessageConstant)

// ConfigurationProvider returns the release manifest.
type ConfigurationProvider func() (manifest.ReleaseConfig, error)

// ReleaseDateProvider returns the operator's raw release date.
type ReleaseDateProvider func(executionContext context.Context) (string, error)

// TokenProvider returns the access token.
type TokenProvider func() (string, error)

// RunInputs supplies the three validated inputs. They are requested in field order and only after the
// previous one succeeded, so an interactive date prompt never appears for a broken manifest.
type RunInputs struct {
	Configuration ConfigurationProvider
	ReleaseDate   ReleaseDateProvider
	Token         TokenProvider
}

// URLOpener shows a link to the operator.
type URLOpener interface {
	Open(executionContext context.Context, targetURL string) error
}

// Settings holds run-wide switches. It is copied at construction.
type Settings struct {
	OpenBrowser bool
	ColorOutput bool
}

// CutterDependencies enumerates collaborators required by Cutter.
type CutterDependencies struct {
	Strategy    BranchStrategy
	LinkBuilder *CompareLinkBuilder
	Opener      URLOpener
	Output      io.Writer
	Logger      *zap.Logger
}

// Cutter applies one BranchStrategy to every repository of a manifest.
type Cutter struct {
	strategy        BranchStrategy
	linkBuilder     *CompareLinkBuilder
	opener          URLOpener
	reporter        Reporter
	summaryRenderer *FailureSummaryRenderer
	logger          *zap.Logger
	settings        Settings
}

// NewCutter constructs a Cutter. Output defaults to stdout and Logger to a no-op logger.
func NewCutter(dependencies CutterDependencies, settings Settings) (*Cutter, error) {
	if dependencies.Strategy == nil {
		return nil, ErrStrategyNotConfigured
	}
	output := dependencies.Output
	if output == nil {
		output = os.Stdout
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cutter{
		strategy:        dependencies.Strategy,
		linkBuilder:     dependencies.LinkBuilder,
		opener:          dependencies.Opener,
		reporter:        NewWriterReporter(output),
		summaryRenderer: NewFailureSummaryRenderer(output, settings.ColorOutput),
		logger:          logger,
		settings:        settings,
	}, nil
}

// Run validates inputs, cuts every repository and reports failures.
// The returned error is always a StartupError; per-repository failures only populate the ledger.
func (cutter *Cutter) Run(executionContext context.Context, inputs RunInputs) (Report, error) {
	report := Report{State: StateAwaitingConfig}

	if inputs.Configuration == nil {
		return cutter.abort(report, errors.New(configurationProviderMissingMessage))
	}
	configuration, configurationError := inputs.Configuration()
	if configurationError != nil {
		return cutter.abort(report, configurationError)
	}
	if validationError := configuration.Validate(cutter.strategy.RequiresOwner()); validationError != nil {
		return cutter.abort(report, validationError)
	}

	report.State = StateAwaitingDate
	if inputs.ReleaseDate == nil {
		return cutter.abort(report, errors.New(releaseDateProviderMissingMessage))
	}
	rawReleaseDate, promptError := inputs.ReleaseDate(executionContext)
	if promptError != nil {
		return cutter.abort(report, promptError)
	}
	releaseDate, parseError := releasedate.Parse(rawReleaseDate)
	if parseError != nil {
		return cutter.abort(report, parseError)
	}

	report.State = StateAwaitingToken
	if inputs.Token == nil {
		return cutter.abort(report, errors.New(tokenProviderMissingMessage))
	}
	token, tokenError := inputs.Token()
	if tokenError != nil {
		return cutter.abort(report, tokenError)
	}
	if len(strings.TrimSpace(token)) == 0 {
		return cutter.abort(report, ErrAccessTokenMissing)
	}

	report.State = StateProcessing
	repositories := configuration.Repositories()
	cutter.reporter.Printf(introLineTemplateConstant, len(repositories), cutter.strategy.Name(), releaseDate.String())

	for _, entry := range repositories {
		result := cutter.cutRepository(executionContext, CutRequest{
			Entry:       entry,
			OwnerName:   configuration.OwnerName(),
			ReleaseDate: releaseDate,
			Token:       strings.TrimSpace(token),
		})
		if !result.Succeeded() {
			report.Ledger.Record(entry.Repository)
		}
		report.Results = append(report.Results, result)
	}

	report.State = StateDone
	cutter.summaryRenderer.Render(report.Ledger, len(repositories))
	return report, nil
}

func (cutter *Cutter) cutRepository(executionContext context.Context, request CutRequest) CutResult {
	repositoryIdentifier := request.Entry.Repository
	cutter.reporter.Printf(repositoryStartTemplateConstant, repositoryIdentifier)

	strategyResult, strategyError := cutter.strategy.CutRelease(executionContext, request)
	if strategyError == nil && len(strategyResult.Outcome) == 0 {
		strategyError = errors.New(unknownOutcomeMessageConstant)
	}
	if strategyError != nil {
		result := CutResult{Repository: repositoryIdentifier, Outcome: CutOutcomeFailed, Reason: strategyError.Error()}
		cutter.logger.Warn(repositoryFailedLogMessageConstant,
			zap.String(repositoryLogFieldConstant, repositoryIdentifier),
			zap.String(strategyLogFieldConstant, cutter.strategy.Name()),
			zap.Error(strategyError),
		)
		reportOutcome(cutter.reporter, result)
		return result
	}

	ownerName := strategyResult.OwnerName
	if len(ownerName) == 0 {
		ownerName = request.OwnerName
	}
	repositoryName := strategyResult.RepositoryName
	if len(repositoryName) == 0 {
		repositoryName = filepath.Base(filepath.Clean(repositoryIdentifier))
	}

	result := CutResult{
		Repository:    repositoryIdentifier,
		Outcome:       strategyResult.Outcome,
		BaseBranch:    strategyResult.BaseBranch,
		ReleaseBranch: strategyResult.ReleaseBranch,
		CompareURL:    cutter.linkBuilder.Build(ownerName, repositoryName, strategyResult.BaseBranch, strategyResult.ReleaseBranch),
	}
	cutter.logger.Debug(repositoryCutLogMessageConstant,
		zap.String(repositoryLogFieldConstant, repositoryIdentifier),
		zap.String(outcomeLogFieldConstant, string(result.Outcome)),
		zap.String(releaseBranchLogFieldConstant, result.ReleaseBranch),
		zap.String(compareURLLogFieldConstant, result.CompareURL),
	)
	reportOutcome(cutter.reporter, result)
	cutter.openCompareLink(executionContext, result.CompareURL)
	return result
}

func (cutter *Cutter) openCompareLink(executionContext context.Context, compareURL string) {
	if !cutter.settings.OpenBrowser || cutter.opener == nil || len(compareURL) == 0 {
		return
	}
	if openError := cutter.opener.Open(executionContext, compareURL); openError != nil {
		cutter.logger.Warn(browserOpenFailedLogMessageConstant, zap.String(compareURLLogFieldConstant, compareURL), zap.Error(openError))
	}
}

func (cutter *Cutter) abort(report Report, cause error) (Report, error) {
	failedState := report.State
	report.State = StateAborted
	cutter.logger.Debug(runAbortedLogMessageConstant, zap.String(stateLogFieldConstant, string(failedState)), zap.Error(cause))
	return report, StartupError{State: failedState, Cause: cause}
}
