package releases

import (
	"context"

	"github.com/temirov/releasecut/internal/manifest"
	"github.com/temirov/releasecut/internal/releasedate"
)

// CutOutcome classifies a per-repository result.
type CutOutcome string

// Supported outcomes.
const (
	CutOutcomeCreated       CutOutcome = CutOutcome("created")
	CutOutcomeAlreadyExists CutOutcome = CutOutcome("already-exists")
	CutOutcomeDispatched    CutOutcome = CutOutcome("dispatched")
	CutOutcomeFailed        CutOutcome = CutOutcome("failed")
)

// CutRequest carries everything a strategy needs for one repository.
type CutRequest struct {
	Entry       manifest.RepoEntry
	OwnerName   string
	ReleaseDate releasedate.ReleaseDate
	Token       string
}

// StrategyResult describes a successful strategy run.
// OwnerName and RepositoryName are optional; the driver falls back to the manifest values.
type StrategyResult struct {
	Outcome        CutOutcome
	BaseBranch     string
	ReleaseBranch  string
	OwnerName      string
	RepositoryName string
}

// BranchStrategy cuts a release branch for a single repository.
type BranchStrategy interface {
	// Name identifies the strategy in output.
	Name() string
	// RequiresOwner reports whether the manifest owner must be present.
	RequiresOwner() bool
	CutRelease(executionContext context.Context, request CutRequest) (StrategyResult, error)
}

// CutResult is the driver's per-repository record.
type CutResult struct {
	Repository    string
	Outcome       CutOutcome
	BaseBranch    string
	ReleaseBranch string
	CompareURL    string
	Reason        string
}

// Succeeded reports whether the repository was handled without error.
func (result CutResult) Succeeded() bool {
	return result.Outcome != CutOutcomeFailed
}

// FailureLedger accumulates failed repository identifiers in the order they failed.
type FailureLedger struct {
	repositories []string
}

// Record appends repositoryIdentifier.
func (ledger *FailureLedger) Record(repositoryIdentifier string) {
	ledger.repositories = append(ledger.repositories, repositoryIdentifier)
}

// Repositories returns a copy of the recorded identifiers.
func (ledger FailureLedger) Repositories() []string {
	return append([]string(nil), ledger.repositories...)
}

// Empty reports whether nothing failed.
func (ledger FailureLedger) Empty() bool {
	return len(ledger.repositories) == 0
}

// Report is the outcome of Cutter.Run.
type Report struct {
	State   RunState
	Results []CutResult
	Ledger  FailureLedger
}
