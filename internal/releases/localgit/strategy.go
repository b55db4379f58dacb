package localgit

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/releasecut/internal/gitrepo"
	"github.com/temirov/releasecut/internal/releasedate"
	"github.com/temirov/releasecut/internal/releases"
)

const (
	strategyNameConstant                = "local"
	gitExecutorMissingMessageConstant   = "git executor not configured"
	accessorMissingMessageConstant      = "git accessor not configured"
	stasherMissingMessageConstant       = "stasher not configured"
	locatorMissingMessageConstant       = "repository locator not configured"
	stepErrorTemplateConstant           = "%s: %v"
	stepLocateConstant                  = "locating repository"
	stepStashConstant                   = "stashing changes"
	stepResolveDefaultConstant          = "resolving default branch"
	stepCheckoutDefaultConstant         = "checking out default branch"
	stepPullConstant                    = "pulling latest changes"
	stepInspectReleaseConstant          = "inspecting release branch"
	stepCreateReleaseConstant           = "creating release branch"
	stepCheckoutReleaseConstant         = "checking out release branch"
	stepPushReleaseConstant             = "pushing release branch"
	stashedMessageConstant              = "Changes stashed successfully.\n"
	checkedOutDefaultTemplateConstant   = "Checked out to %s branch.\n"
	pulledMessageConstant               = "Pulled latest changes successfully.\n"
	createdReleaseTemplateConstant      = "Created release branch: %s\n"
	checkedOutReleaseTemplateConstant   = "Checked out to release branch: %s\n"
	pushedReleaseTemplateConstant       = "Pushed release branch %s to remote.\n"
	originParseFailedLogMessageConstant = "Unable to derive owner from origin"
	repositoryPathLogFieldConstant      = "repository_path"
)

var (
	// ErrGitExecutorNotConfigured indicates a stasher was built without an executor.
	ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)
	// ErrGitAccessorNotConfigured indicates the strategy was built without a git accessor.
	ErrGitAccessorNotConfigured = errors.New(accessorMissingMessageConstant)
	// ErrStasherNotConfigured indicates the strategy was built without a stasher.
	ErrStasherNotConfigured = errors.New(stasherMissingMessageConstant)
	// ErrLocatorNotConfigured indicates the strategy was built without a repository locator.
	ErrLocatorNotConfigured = errors.New(locatorMissingMessageConstant)
)

// StepError identifies the step of a local cut that failed. Earlier steps are not rolled back.
type StepError struct {
	Step  string
	Cause error
}

// Error describes the failed step.
func (stepError StepError) Error() string {
	return fmt.Sprintf(stepErrorTemplateConstant, stepError.Step, stepError.Cause)
}

// Unwrap exposes the underlying cause.
func (stepError StepError) Unwrap() error {
	return stepError.Cause
}

// RepositoryLocator maps manifest identifiers to checkout directories.
type RepositoryLocator interface {
	Locate(repositoryIdentifier string) (string, error)
}

// Dependencies enumerates collaborators of the local strategy.
type Dependencies struct {
	Accessor    GitAccessor
	Stasher     Stasher
	Locator     RepositoryLocator
	BranchNamer releases.BranchNamer
	Reporter    releases.Reporter
	Logger      *zap.Logger
}

// Strategy cuts release branches in local checkouts and pushes them to origin.
type Strategy struct {
	accessor    GitAccessor
	stasher     Stasher
	locator     RepositoryLocator
	branchNamer releases.BranchNamer
	reporter    releases.Reporter
	logger      *zap.Logger
}

// NewStrategy validates dependencies. BranchNamer defaults to TESTING/{date}, Reporter defaults to stdout and Logger to a no-op logger.
func NewStrategy(dependencies Dependencies) (*Strategy, error) {
	if dependencies.Accessor == nil {
		return nil, ErrGitAccessorNotConfigured
	}
	if dependencies.Stasher == nil {
		return nil, ErrStasherNotConfigured
	}
	if dependencies.Locator == nil {
		return nil, ErrLocatorNotConfigured
	}
	branchNamer := dependencies.BranchNamer
	if branchNamer.IsZero() {
		defaultNamer, namerError := releases.NewBranchNamer(releases.DefaultLocalBranchTemplate)
		if namerError != nil {
			return nil, namerError
		}
		branchNamer = defaultNamer
	}
	reporter := dependencies.Reporter
	if reporter == nil {
		reporter = releases.NewWriterReporter(nil)
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Strategy{
		accessor:    dependencies.Accessor,
		stasher:     dependencies.Stasher,
		locator:     dependencies.Locator,
		branchNamer: branchNamer,
		reporter:    reporter,
		logger:      logger,
	}, nil
}

// Name identifies the strategy.
func (strategy *Strategy) Name() string {
	return strategyNameConstant
}

// RequiresOwner is false: the owner is read from origin when links are rendered.
func (strategy *Strategy) RequiresOwner() bool {
	return false
}

// CutRelease locates the checkout for request.Entry and runs the local cut there.
func (strategy *Strategy) CutRelease(executionContext context.Context, request releases.CutRequest) (releases.StrategyResult, error) {
	repositoryPath, locateError := strategy.locator.Locate(request.Entry.Repository)
	if locateError != nil {
		return releases.StrategyResult{}, StepError{Step: stepLocateConstant, Cause: locateError}
	}
	return strategy.CutReleaseAt(executionContext, repositoryPath, request.Entry.DefaultBranch, request.ReleaseDate, request.Token)
}

// CutReleaseAt stashes, checks out and pulls defaultBranchName, then creates, checks out and pushes the
// release branch. An existing release branch ends the run successfully without further changes.
func (strategy *Strategy) CutReleaseAt(executionContext context.Context, repositoryPath string, defaultBranchName string, releaseDate releasedate.ReleaseDate, token string) (releases.StrategyResult, error) {
	if stashError := strategy.stasher.StashAll(executionContext, repositoryPath); stashError != nil {
		return releases.StrategyResult{}, StepError{Step: stepStashConstant, Cause: stashError}
	}
	strategy.reporter.Printf(stashedMessageConstant)

	baseBranch := strings.TrimSpace(defaultBranchName)
	if len(baseBranch) == 0 {
		resolvedBranch, resolveError := strategy.accessor.ResolveDefaultBranch(executionContext, repositoryPath)
		if resolveError != nil {
			return releases.StrategyResult{}, StepError{Step: stepResolveDefaultConstant, Cause: resolveError}
		}
		baseBranch = resolvedBranch
	}

	if checkoutError := strategy.accessor.Checkout(executionContext, repositoryPath, baseBranch); checkoutError != nil {
		return releases.StrategyResult{}, StepError{Step: stepCheckoutDefaultConstant, Cause: checkoutError}
	}
	strategy.reporter.Printf(checkedOutDefaultTemplateConstant, baseBranch)

	if pullError := strategy.accessor.Pull(executionContext, repositoryPath, baseBranch, token); pullError != nil {
		return releases.StrategyResult{}, StepError{Step: stepPullConstant, Cause: pullError}
	}
	strategy.reporter.Printf(pulledMessageConstant)

	result := releases.StrategyResult{BaseBranch: baseBranch, ReleaseBranch: strategy.branchNamer.Name(releaseDate)}
	result.OwnerName, result.RepositoryName = strategy.describeOrigin(executionContext, repositoryPath)

	exists, existsError := strategy.accessor.BranchExists(executionContext, repositoryPath, result.ReleaseBranch)
	if existsError != nil {
		return releases.StrategyResult{}, StepError{Step: stepInspectReleaseConstant, Cause: existsError}
	}
	if exists {
		result.Outcome = releases.CutOutcomeAlreadyExists
		return result, nil
	}

	if createError := strategy.accessor.CreateBranchAtHead(executionContext, repositoryPath, result.ReleaseBranch); createError != nil {
		return releases.StrategyResult{}, StepError{Step: stepCreateReleaseConstant, Cause: createError}
	}
	strategy.reporter.Printf(createdReleaseTemplateConstant, result.ReleaseBranch)

	if checkoutError := strategy.accessor.Checkout(executionContext, repositoryPath, result.ReleaseBranch); checkoutError != nil {
		return releases.StrategyResult{}, StepError{Step: stepCheckoutReleaseConstant, Cause: checkoutError}
	}
	strategy.reporter.Printf(checkedOutReleaseTemplateConstant, result.ReleaseBranch)

	if pushError := strategy.accessor.Push(executionContext, repositoryPath, result.ReleaseBranch, token); pushError != nil {
		return releases.StrategyResult{}, StepError{Step: stepPushReleaseConstant, Cause: pushError}
	}
	strategy.reporter.Printf(pushedReleaseTemplateConstant, result.ReleaseBranch)

	result.Outcome = releases.CutOutcomeCreated
	return result, nil
}

func (strategy *Strategy) describeOrigin(executionContext context.Context, repositoryPath string) (string, string) {
	fallbackName := filepath.Base(repositoryPath)
	remoteURL, remoteError := strategy.accessor.OriginURL(executionContext, repositoryPath)
	if remoteError != nil {
		strategy.logger.Debug(originParseFailedLogMessageConstant, zap.String(repositoryPathLogFieldConstant, repositoryPath), zap.Error(remoteError))
		return "", fallbackName
	}
	parsedRemote, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		strategy.logger.Debug(originParseFailedLogMessageConstant, zap.String(repositoryPathLogFieldConstant, repositoryPath), zap.Error(parseError))
		return "", fallbackName
	}
	return parsedRemote.Owner, parsedRemote.Repository
}
