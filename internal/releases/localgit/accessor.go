package localgit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

const (
	originRemoteNameConstant            = "origin"
	remoteBranchPrefixTemplateConstant  = "refs/remotes/%s/"
	pushRefSpecTemplateConstant         = "%s:%s"
	httpSchemePrefixConstant            = "http"
	openRepositoryErrorTemplateConstant = "failed to open repository %s: %w"
	worktreeErrorTemplateConstant       = "failed to open worktree: %w"
	branchMissingErrorTemplateConstant  = "%w: %s"
	remoteMissingErrorTemplateConstant  = "remote %s has no url"
	noDefaultBranchMessageConstant      = "unable to determine the default branch; set defaultbranch in the manifest"
	mainBranchNameConstant              = "main"
	masterBranchNameConstant            = "master"
)

// ErrBranchNotFound indicates a local branch does not exist.
var ErrBranchNotFound = errors.New("branch not found")

// ErrDefaultBranchUnknown indicates none of the default branch candidates exist.
var ErrDefaultBranchUnknown = errors.New(noDefaultBranchMessageConstant)

// GitAccessor performs the go-git backed steps of a local release cut.
type GitAccessor interface {
	ResolveDefaultBranch(executionContext context.Context, repositoryPath string) (string, error)
	Checkout(executionContext context.Context, repositoryPath string, branchName string) error
	Pull(executionContext context.Context, repositoryPath string, branchName string, token string) error
	BranchExists(executionContext context.Context, repositoryPath string, branchName string) (bool, error)
	CreateBranchAtHead(executionContext context.Context, repositoryPath string, branchName string) error
	Push(executionContext context.Context, repositoryPath string, branchName string, token string) error
	OriginURL(executionContext context.Context, repositoryPath string) (string, error)
}

// GoGitAccessor implements GitAccessor with go-git.
type GoGitAccessor struct{}

// NewGoGitAccessor constructs a GoGitAccessor.
func NewGoGitAccessor() *GoGitAccessor {
	return &GoGitAccessor{}
}

// ResolveDefaultBranch prefers origin/HEAD, then origin/main, origin/master, main and master.
func (accessor *GoGitAccessor) ResolveDefaultBranch(_ context.Context, repositoryPath string) (string, error) {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return "", openError
	}

	remoteBranchPrefix := fmt.Sprintf(remoteBranchPrefixTemplateConstant, originRemoteNameConstant)
	remoteHead, remoteHeadError := repository.Reference(plumbing.NewRemoteHEADReferenceName(originRemoteNameConstant), false)
	if remoteHeadError == nil && remoteHead.Type() == plumbing.SymbolicReference {
		targetName := remoteHead.Target().String()
		if strings.HasPrefix(targetName, remoteBranchPrefix) {
			return strings.TrimPrefix(targetName, remoteBranchPrefix), nil
		}
	}

	candidates := []struct {
		referenceName plumbing.ReferenceName
		branchName    string
	}{
		{plumbing.NewRemoteReferenceName(originRemoteNameConstant, mainBranchNameConstant), mainBranchNameConstant},
		{plumbing.NewRemoteReferenceName(originRemoteNameConstant, masterBranchNameConstant), masterBranchNameConstant},
		{plumbing.NewBranchReferenceName(mainBranchNameConstant), mainBranchNameConstant},
		{plumbing.NewBranchReferenceName(masterBranchNameConstant), masterBranchNameConstant},
	}
	for _, candidate := range candidates {
		if _, referenceError := repository.Reference(candidate.referenceName, false); referenceError == nil {
			return candidate.branchName, nil
		}
	}
	return "", ErrDefaultBranchUnknown
}

// Checkout switches the worktree to an existing local branch.
func (accessor *GoGitAccessor) Checkout(_ context.Context, repositoryPath string, branchName string) error {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return openError
	}
	branchReference := plumbing.NewBranchReferenceName(branchName)
	if _, referenceError := repository.Reference(branchReference, false); referenceError != nil {
		if errors.Is(referenceError, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf(branchMissingErrorTemplateConstant, ErrBranchNotFound, branchName)
		}
		return referenceError
	}
	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return fmt.Errorf(worktreeErrorTemplateConstant, worktreeError)
	}
	return worktree.Checkout(&git.CheckoutOptions{Branch: branchReference})
}

// Pull fast-forwards branchName from origin. An up-to-date branch is not an error.
func (accessor *GoGitAccessor) Pull(executionContext context.Context, repositoryPath string, branchName string, token string) error {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return openError
	}
	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return fmt.Errorf(worktreeErrorTemplateConstant, worktreeError)
	}
	authentication, authenticationError := resolveAuthentication(repository, token)
	if authenticationError != nil {
		return authenticationError
	}
	pullError := worktree.PullContext(executionContext, &git.PullOptions{
		RemoteName:    originRemoteNameConstant,
		ReferenceName: plumbing.NewBranchReferenceName(branchName),
		SingleBranch:  true,
		Auth:          authentication,
	})
	if errors.Is(pullError, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return pullError
}

// BranchExists reports whether a local branch named branchName exists.
func (accessor *GoGitAccessor) BranchExists(_ context.Context, repositoryPath string, branchName string) (bool, error) {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return false, openError
	}
	_, referenceError := repository.Reference(plumbing.NewBranchReferenceName(branchName), false)
	if referenceError == nil {
		return true, nil
	}
	if errors.Is(referenceError, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	return false, referenceError
}

// CreateBranchAtHead points a new local branch at the current HEAD commit.
func (accessor *GoGitAccessor) CreateBranchAtHead(_ context.Context, repositoryPath string, branchName string) error {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return openError
	}
	head, headError := repository.Head()
	if headError != nil {
		return headError
	}
	return repository.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName(branchName), head.Hash()))
}

// Push publishes branchName to origin under the same name.
func (accessor *GoGitAccessor) Push(executionContext context.Context, repositoryPath string, branchName string, token string) error {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return openError
	}
	authentication, authenticationError := resolveAuthentication(repository, token)
	if authenticationError != nil {
		return authenticationError
	}
	branchReference := plumbing.NewBranchReferenceName(branchName)
	pushError := repository.PushContext(executionContext, &git.PushOptions{
		RemoteName: originRemoteNameConstant,
		RefSpecs:   []config.RefSpec{config.RefSpec(fmt.Sprintf(pushRefSpecTemplateConstant, branchReference, branchReference))},
		Auth:       authentication,
	})
	if errors.Is(pushError, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return pushError
}

// OriginURL returns the first configured URL of origin.
func (accessor *GoGitAccessor) OriginURL(_ context.Context, repositoryPath string) (string, error) {
	repository, openError := openRepository(repositoryPath)
	if openError != nil {
		return "", openError
	}
	return originURL(repository)
}

func openRepository(repositoryPath string) (*git.Repository, error) {
	repository, openError := git.PlainOpen(repositoryPath)
	if openError != nil {
		return nil, fmt.Errorf(openRepositoryErrorTemplateConstant, repositoryPath, openError)
	}
	return repository, nil
}

func originURL(repository *git.Repository) (string, error) {
	remote, remoteError := repository.Remote(originRemoteNameConstant)
	if remoteError != nil {
		return "", remoteError
	}
	remoteURLs := remote.Config().URLs
	if len(remoteURLs) == 0 {
		return "", fmt.Errorf(remoteMissingErrorTemplateConstant, originRemoteNameConstant)
	}
	return remoteURLs[0], nil
}

// resolveAuthentication sends the token as the basic-auth username with an empty password over HTTP(S).
// Other transports keep their ambient credentials.
func resolveAuthentication(repository *git.Repository, token string) (transport.AuthMethod, error) {
	remoteURL, remoteError := originURL(repository)
	if remoteError != nil {
		return nil, remoteError
	}
	if !strings.HasPrefix(strings.ToLower(remoteURL), httpSchemePrefixConstant) {
		return nil, nil
	}
	return &githttp.BasicAuth{Username: token, Password: ""}, nil
}
