package githubapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"github.com/temirov/releasecut/internal/releases/remoteapi"
)

const (
	// DefaultUserAgent identifies requests made by this tool.
	DefaultUserAgent = "releasecut"

	branchRefPathTemplateConstant     = "repos/%s/%s/git/refs/heads/%s"
	branchRefPrefixConstant           = "refs/heads/"
	urlPathSeparatorConstant          = "/"
	branchNameInputConstant           = "branch_name"
	getRepositoryOperationConstant    = "get repository"
	getRefOperationConstant           = "get ref"
	createRefOperationConstant        = "create ref"
	dispatchWorkflowOperationConstant = "dispatch workflow"
	transportErrorTemplateConstant    = "%s: %w"
	invalidBaseURLTemplateConstant    = "invalid GitHub API base url %q: %w"
	refNotFoundTemplateConstant       = "%w: %s"
	tokenMissingMessageConstant       = "GitHub token is required"
	workflowMissingMessageConstant    = "workflow file name or id is required"
	refNotFoundMessageConstant        = "ref not found"
)

var (
	// ErrTokenRequired indicates the client was built without a token.
	ErrTokenRequired = errors.New(tokenMissingMessageConstant)
	// ErrWorkflowRequired indicates a dispatch was requested without a workflow.
	ErrWorkflowRequired = errors.New(workflowMissingMessageConstant)
	// ErrRefNotFound indicates the refs endpoint returned no exact match.
	ErrRefNotFound = errors.New(refNotFoundMessageConstant)
)

// Options configures a Client.
type Options struct {
	// BaseURL overrides https://api.github.com/, e.g. https://ghe.example.com/api/v3/.
	BaseURL string
	// UserAgent defaults to DefaultUserAgent.
	UserAgent string
	// Transport is the base round tripper beneath token authentication.
	Transport http.RoundTripper
}

// Client implements remoteapi.Platform for GitHub.
type Client struct {
	client *github.Client
}

// NewClient builds a GitHub client that sends token as a bearer credential.
func NewClient(token string, options Options) (*Client, error) {
	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return nil, ErrTokenRequired
	}

	baseTransport := options.Transport
	if baseTransport == nil {
		baseTransport = http.DefaultTransport
	}
	httpClient := &http.Client{Transport: &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: trimmedToken}),
		Base:   baseTransport,
	}}

	githubClient := github.NewClient(httpClient)
	githubClient.UserAgent = DefaultUserAgent
	if len(strings.TrimSpace(options.UserAgent)) > 0 {
		githubClient.UserAgent = strings.TrimSpace(options.UserAgent)
	}

	if len(strings.TrimSpace(options.BaseURL)) > 0 {
		baseURL, parseError := url.Parse(strings.TrimSpace(options.BaseURL))
		if parseError != nil {
			return nil, fmt.Errorf(invalidBaseURLTemplateConstant, options.BaseURL, parseError)
		}
		if !strings.HasSuffix(baseURL.Path, urlPathSeparatorConstant) {
			baseURL.Path += urlPathSeparatorConstant
		}
		githubClient.BaseURL = baseURL
	}

	return &Client{client: githubClient}, nil
}

// NewPlatformFactory adapts NewClient to remoteapi.PlatformFactory.
func NewPlatformFactory(options Options) remoteapi.PlatformFactory {
	return func(token string) (remoteapi.Platform, error) {
		return NewClient(token, options)
	}
}

// DefaultBranch calls GET /repos/{owner}/{repo}.
func (client *Client) DefaultBranch(executionContext context.Context, ownerName string, repositoryName string) (string, error) {
	repository, response, requestError := client.client.Repositories.Get(executionContext, ownerName, repositoryName)
	if requestError != nil {
		return "", responseFailure(getRepositoryOperationConstant, response, requestError)
	}
	return repository.GetDefaultBranch(), nil
}

// BranchHeadSHA calls GET /repos/{owner}/{repo}/git/refs/heads/{branch}.
// When the API answers with a list of prefix matches, only an exact match is accepted.
func (client *Client) BranchHeadSHA(executionContext context.Context, ownerName string, repositoryName string, branchName string) (string, error) {
	requestPath := fmt.Sprintf(branchRefPathTemplateConstant, url.PathEscape(ownerName), url.PathEscape(repositoryName), escapeRefPath(branchName))
	request, requestBuildError := client.client.NewRequest(http.MethodGet, requestPath, nil)
	if requestBuildError != nil {
		return "", requestBuildError
	}

	var rawReference json.RawMessage
	response, requestError := client.client.Do(executionContext, request, &rawReference)
	if requestError != nil {
		return "", responseFailure(getRefOperationConstant, response, requestError)
	}

	expectedRef := branchRefPrefixConstant + branchName
	trimmedPayload := strings.TrimSpace(string(rawReference))
	if strings.HasPrefix(trimmedPayload, "[") {
		var references []github.Reference
		if decodeError := json.Unmarshal(rawReference, &references); decodeError != nil {
			return "", decodeError
		}
		for _, reference := range references {
			if reference.GetRef() == expectedRef {
				return reference.GetObject().GetSHA(), nil
			}
		}
		return "", fmt.Errorf(refNotFoundTemplateConstant, ErrRefNotFound, expectedRef)
	}

	var reference github.Reference
	if decodeError := json.Unmarshal(rawReference, &reference); decodeError != nil {
		return "", decodeError
	}
	return reference.GetObject().GetSHA(), nil
}

// CreateBranchRef calls POST /repos/{owner}/{repo}/git/refs with {ref, sha}.
func (client *Client) CreateBranchRef(executionContext context.Context, ownerName string, repositoryName string, branchName string, commitSHA string) error {
	_, response, requestError := client.client.Git.CreateRef(executionContext, ownerName, repositoryName, &github.Reference{
		Ref:    github.Ptr(branchRefPrefixConstant + branchName),
		Object: &github.GitObject{SHA: github.Ptr(commitSHA)},
	})
	if requestError != nil {
		return responseFailure(createRefOperationConstant, response, requestError)
	}
	return nil
}

// DispatchWorkflow calls POST /repos/{owner}/{repo}/actions/workflows/{workflow}/dispatches with
// {ref, inputs: {branch_name}}. A numeric workflow is treated as a workflow id.
func (client *Client) DispatchWorkflow(executionContext context.Context, ownerName string, repositoryName string, workflowName string, ref string, releaseBranch string) error {
	trimmedWorkflow := strings.TrimSpace(workflowName)
	if len(trimmedWorkflow) == 0 {
		return ErrWorkflowRequired
	}
	event := github.CreateWorkflowDispatchEventRequest{
		Ref:    ref,
		Inputs: map[string]interface{}{branchNameInputConstant: releaseBranch},
	}

	var response *github.Response
	var requestError error
	if workflowID, parseError := strconv.ParseInt(trimmedWorkflow, 10, 64); parseError == nil {
		response, requestError = client.client.Actions.CreateWorkflowDispatchEventByID(executionContext, ownerName, repositoryName, workflowID, event)
	} else {
		response, requestError = client.client.Actions.CreateWorkflowDispatchEventByFileName(executionContext, ownerName, repositoryName, trimmedWorkflow, event)
	}
	if requestError != nil {
		return responseFailure(dispatchWorkflowOperationConstant, response, requestError)
	}
	return nil
}

func escapeRefPath(branchName string) string {
	segments := strings.Split(branchName, urlPathSeparatorConstant)
	for segmentIndex, segment := range segments {
		segments[segmentIndex] = url.PathEscape(segment)
	}
	return strings.Join(segments, urlPathSeparatorConstant)
}

// responseFailure converts an HTTP status failure into remoteapi.ResponseError carrying the raw body.
// Failures without a response are transport errors and keep their cause.
func responseFailure(operation string, response *github.Response, requestError error) error {
	if response == nil || response.Response == nil || response.StatusCode == 0 {
		return fmt.Errorf(transportErrorTemplateConstant, operation, requestError)
	}
	var body []byte
	if response.Body != nil {
		body, _ = io.ReadAll(response.Body)
	}
	return remoteapi.ResponseError{Operation: operation, StatusCode: response.StatusCode, Body: string(body)}
}
