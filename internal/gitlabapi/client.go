package gitlabapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/temirov/releasecut/internal/releases/remoteapi"
)

const (
	// DefaultBaseURL is the public GitLab instance.
	DefaultBaseURL = "https://gitlab.com"
	// BranchNameVariable carries the release branch into dispatched pipelines.
	BranchNameVariable = "BRANCH_NAME"

	projectPathSeparatorConstant       = "/"
	getProjectOperationConstant        = "get project"
	getBranchOperationConstant         = "get branch"
	createBranchOperationConstant      = "create branch"
	createPipelineOperationConstant    = "create pipeline"
	transportErrorTemplateConstant     = "%s: %w"
	clientInitTemplateConstant         = "creating gitlab client: %w"
	tokenMissingMessageConstant        = "GitLab token is required"
	branchCommitMissingMessageConstant = "branch has no head commit"
)

var (
	// ErrTokenRequired indicates the client was built without a token.
	ErrTokenRequired = errors.New(tokenMissingMessageConstant)
	// ErrBranchCommitMissing indicates the branch response carried no commit.
	ErrBranchCommitMissing = errors.New(branchCommitMissingMessageConstant)
)

// Options configures a Client.
type Options struct {
	// BaseURL overrides DefaultBaseURL; the client appends api/v4 itself.
	BaseURL string
	// HTTPClient replaces the default HTTP client.
	HTTPClient *http.Client
}

// Client implements remoteapi.Platform for GitLab. Projects are addressed by "owner/repo" path.
type Client struct {
	client *gl.Client
}

// NewClient builds a GitLab client authenticated with a private token.
func NewClient(token string, options Options) (*Client, error) {
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return nil, ErrTokenRequired
	}

	baseURL := strings.TrimSpace(options.BaseURL)
	if len(baseURL) == 0 {
		baseURL = DefaultBaseURL
	}
	clientOptions := []gl.ClientOptionFunc{gl.WithBaseURL(baseURL)}
	if options.HTTPClient != nil {
		clientOptions = append(clientOptions, gl.WithHTTPClient(options.HTTPClient))
	}

	gitlabClient, clientError := gl.NewClient(trimmedToken, clientOptions...)
	if clientError != nil {
		return nil, fmt.Errorf(clientInitTemplateConstant, clientError)
	}
	return &Client{client: gitlabClient}, nil
}

// NewPlatformFactory adapts NewClient to remoteapi.PlatformFactory.
func NewPlatformFactory(options Options) remoteapi.PlatformFactory {
	return func(token string) (remoteapi.Platform, error) {
		return NewClient(token, options)
	}
}

// DefaultBranch reads the project's default branch.
func (client *Client) DefaultBranch(executionContext context.Context, ownerName string, repositoryName string) (string, error) {
	project, response, requestError := client.client.Projects.GetProject(projectPath(ownerName, repositoryName), nil, gl.WithContext(executionContext))
	if requestError != nil {
		return "", responseFailure(getProjectOperationConstant, response, requestError)
	}
	return project.DefaultBranch, nil
}

// BranchHeadSHA reads the commit id at the head of branchName.
func (client *Client) BranchHeadSHA(executionContext context.Context, ownerName string, repositoryName string, branchName string) (string, error) {
	branch, response, requestError := client.client.Branches.GetBranch(projectPath(ownerName, repositoryName), branchName, gl.WithContext(executionContext))
	if requestError != nil {
		return "", responseFailure(getBranchOperationConstant, response, requestError)
	}
	if branch == nil || branch.Commit == nil {
		return "", ErrBranchCommitMissing
	}
	return branch.Commit.ID, nil
}

// CreateBranchRef creates branchName at commitSHA.
func (client *Client) CreateBranchRef(executionContext context.Context, ownerName string, repositoryName string, branchName string, commitSHA string) error {
	createOptions := &gl.CreateBranchOptions{
		Branch: gl.Ptr(branchName),
		Ref:    gl.Ptr(commitSHA),
	}
	_, response, requestError := client.client.Branches.CreateBranch(projectPath(ownerName, repositoryName), createOptions, gl.WithContext(executionContext))
	if requestError != nil {
		return responseFailure(createBranchOperationConstant, response, requestError)
	}
	return nil
}

// DispatchWorkflow starts a pipeline on ref with BRANCH_NAME set to releaseBranch.
// GitLab pipelines are selected by ref, so workflowName is not sent.
func (client *Client) DispatchWorkflow(executionContext context.Context, ownerName string, repositoryName string, workflowName string, ref string, releaseBranch string) error {
	pipelineOptions := &gl.CreatePipelineOptions{
		Ref: gl.Ptr(ref),
		Variables: &[]*gl.PipelineVariableOptions{
			{Key: gl.Ptr(BranchNameVariable), Value: gl.Ptr(releaseBranch)},
		},
	}
	_, response, requestError := client.client.Pipelines.CreatePipeline(projectPath(ownerName, repositoryName), pipelineOptions, gl.WithContext(executionContext))
	if requestError != nil {
		return responseFailure(createPipelineOperationConstant, response, requestError)
	}
	return nil
}

func projectPath(ownerName string, repositoryName string) string {
	return strings.Trim(ownerName, projectPathSeparatorConstant) + projectPathSeparatorConstant + repositoryName
}

func responseFailure(operation string, response *gl.Response, requestError error) error {
	if response == nil || response.Response == nil || response.StatusCode == 0 {
		return fmt.Errorf(transportErrorTemplateConstant, operation, requestError)
	}

	var errorResponse *gl.ErrorResponse
	if errors.As(requestError, &errorResponse) && len(errorResponse.Body) > 0 {
		return remoteapi.ResponseError{Operation: operation, StatusCode: response.StatusCode, Body: string(errorResponse.Body)}
	}

	var body []byte
	if response.Body != nil {
		body, _ = io.ReadAll(response.Body)
	}
	return remoteapi.ResponseError{Operation: operation, StatusCode: response.StatusCode, Body: string(body)}
}
