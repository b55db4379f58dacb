package remoteapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/releasecut/internal/releases"
)

const (
	branchCreationStrategyNameConstant   = "remote"
	workflowDispatchStrategyNameConstant = "dispatch"
	platformFactoryMissingMessage        = "platform factory not configured"
	emptyDefaultBranchTemplateConstant   = "%w: default branch of %s/%s"
	emptyCommitSHATemplateConstant       = "%w: head commit of %s/%s@%s"
	lookupDefaultBranchTemplateConstant  = "resolving default branch: %w"
	lookupHeadTemplateConstant           = "resolving head of %s: %w"
	createRefTemplateConstant            = "creating %s: %w"
	dispatchTemplateConstant             = "dispatching %s: %w"
	platformInitTemplateConstant         = "initializing platform client: %w"
)

// ErrPlatformFactoryNotConfigured indicates a strategy was built without a PlatformFactory.
var ErrPlatformFactoryNotConfigured = errors.New(platformFactoryMissingMessage)

// platformResolver builds one Platform per token and reuses it across repositories.
type platformResolver struct {
	factory       PlatformFactory
	platform      Platform
	platformToken string
}

func (resolver *platformResolver) resolve(token string) (Platform, error) {
	if resolver.platform != nil && resolver.platformToken == token {
		return resolver.platform, nil
	}
	platform, factoryError := resolver.factory(token)
	if factoryError != nil {
		return nil, fmt.Errorf(platformInitTemplateConstant, factoryError)
	}
	resolver.platform = platform
	resolver.platformToken = token
	return platform, nil
}

func resolveDefaultBranch(executionContext context.Context, platform Platform, ownerName string, repositoryName string, override string) (string, error) {
	trimmedOverride := strings.TrimSpace(override)
	if len(trimmedOverride) > 0 {
		return trimmedOverride, nil
	}
	defaultBranch, lookupError := platform.DefaultBranch(executionContext, ownerName, repositoryName)
	if lookupError != nil {
		return "", fmt.Errorf(lookupDefaultBranchTemplateConstant, lookupError)
	}
	if len(strings.TrimSpace(defaultBranch)) == 0 {
		return "", fmt.Errorf(emptyDefaultBranchTemplateConstant, ErrEmptyResponseField, ownerName, repositoryName)
	}
	return strings.TrimSpace(defaultBranch), nil
}

func resolveBranchNamer(branchNamer releases.BranchNamer) (releases.BranchNamer, error) {
	if !branchNamer.IsZero() {
		return branchNamer, nil
	}
	return releases.NewBranchNamer(releases.DefaultRemoteBranchTemplate)
}

// BranchCreationStrategy creates refs/heads/<release branch> at the default branch head.
// A ref that already exists is reported as a failure.
type BranchCreationStrategy struct {
	platforms   *platformResolver
	branchNamer releases.BranchNamer
}

// NewBranchCreationStrategy builds the strategy. A zero BranchNamer defaults to release/{date}.
func NewBranchCreationStrategy(factory PlatformFactory, branchNamer releases.BranchNamer) (*BranchCreationStrategy, error) {
	if factory == nil {
		return nil, ErrPlatformFactoryNotConfigured
	}
	resolvedNamer, namerError := resolveBranchNamer(branchNamer)
	if namerError != nil {
		return nil, namerError
	}
	return &BranchCreationStrategy{platforms: &platformResolver{factory: factory}, branchNamer: resolvedNamer}, nil
}

// Name identifies the strategy.
func (strategy *BranchCreationStrategy) Name() string {
	return branchCreationStrategyNameConstant
}

// RequiresOwner is true because every API path is owner-scoped.
func (strategy *BranchCreationStrategy) RequiresOwner() bool {
	return true
}

// CutRelease resolves the default branch and its head commit, then creates the release ref.
func (strategy *BranchCreationStrategy) CutRelease(executionContext context.Context, request releases.CutRequest) (releases.StrategyResult, error) {
	platform, platformError := strategy.platforms.resolve(request.Token)
	if platformError != nil {
		return releases.StrategyResult{}, platformError
	}
	ownerName := request.OwnerName
	repositoryName := request.Entry.Repository

	defaultBranch, defaultError := resolveDefaultBranch(executionContext, platform, ownerName, repositoryName, request.Entry.DefaultBranch)
	if defaultError != nil {
		return releases.StrategyResult{}, defaultError
	}

	commitSHA, headError := platform.BranchHeadSHA(executionContext, ownerName, repositoryName, defaultBranch)
	if headError != nil {
		return releases.StrategyResult{}, fmt.Errorf(lookupHeadTemplateConstant, defaultBranch, headError)
	}
	if len(strings.TrimSpace(commitSHA)) == 0 {
		return releases.StrategyResult{}, fmt.Errorf(emptyCommitSHATemplateConstant, ErrEmptyResponseField, ownerName, repositoryName, defaultBranch)
	}

	releaseBranch := strategy.branchNamer.Name(request.ReleaseDate)
	if createError := platform.CreateBranchRef(executionContext, ownerName, repositoryName, releaseBranch, strings.TrimSpace(commitSHA)); createError != nil {
		return releases.StrategyResult{}, fmt.Errorf(createRefTemplateConstant, releaseBranch, createError)
	}

	return releases.StrategyResult{
		Outcome:        releases.CutOutcomeCreated,
		BaseBranch:     defaultBranch,
		ReleaseBranch:  releaseBranch,
		OwnerName:      ownerName,
		RepositoryName: repositoryName,
	}, nil
}

// WorkflowDispatchStrategy triggers a remote workflow that creates the release branch server-side.
type WorkflowDispatchStrategy struct {
	platforms    *platformResolver
	branchNamer  releases.BranchNamer
	workflowName string
}

// NewWorkflowDispatchStrategy builds the strategy for workflowName. A zero BranchNamer defaults to release/{date}.
func NewWorkflowDispatchStrategy(factory PlatformFactory, branchNamer releases.BranchNamer, workflowName string) (*WorkflowDispatchStrategy, error) {
	if factory == nil {
		return nil, ErrPlatformFactoryNotConfigured
	}
	resolvedNamer, namerError := resolveBranchNamer(branchNamer)
	if namerError != nil {
		return nil, namerError
	}
	return &WorkflowDispatchStrategy{
		platforms:    &platformResolver{factory: factory},
		branchNamer:  resolvedNamer,
		workflowName: strings.TrimSpace(workflowName),
	}, nil
}

// Name identifies the strategy.
func (strategy *WorkflowDispatchStrategy) Name() string {
	return workflowDispatchStrategyNameConstant
}

// RequiresOwner is true because every API path is owner-scoped.
func (strategy *WorkflowDispatchStrategy) RequiresOwner() bool {
	return true
}

// CutRelease delegates to TriggerCut.
func (strategy *WorkflowDispatchStrategy) CutRelease(executionContext context.Context, request releases.CutRequest) (releases.StrategyResult, error) {
	return strategy.TriggerCut(executionContext, request)
}

// TriggerCut dispatches the workflow on the default branch. Success only means the trigger was accepted.
func (strategy *WorkflowDispatchStrategy) TriggerCut(executionContext context.Context, request releases.CutRequest) (releases.StrategyResult, error) {
	platform, platformError := strategy.platforms.resolve(request.Token)
	if platformError != nil {
		return releases.StrategyResult{}, platformError
	}
	ownerName := request.OwnerName
	repositoryName := request.Entry.Repository

	defaultBranch, defaultError := resolveDefaultBranch(executionContext, platform, ownerName, repositoryName, request.Entry.DefaultBranch)
	if defaultError != nil {
		return releases.StrategyResult{}, defaultError
	}

	releaseBranch := strategy.branchNamer.Name(request.ReleaseDate)
	if dispatchError := platform.DispatchWorkflow(executionContext, ownerName, repositoryName, strategy.workflowName, defaultBranch, releaseBranch); dispatchError != nil {
		return releases.StrategyResult{}, fmt.Errorf(dispatchTemplateConstant, strategy.workflowName, dispatchError)
	}

	return releases.StrategyResult{
		Outcome:        releases.CutOutcomeDispatched,
		BaseBranch:     defaultBranch,
		ReleaseBranch:  releaseBranch,
		OwnerName:      ownerName,
		RepositoryName: repositoryName,
	}, nil
}
