package remoteapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	responseErrorTemplateConstant    = "%s failed with status %d: %s"
	responseErrorWithoutBodyTemplate = "%s failed with status %d"
)

// ErrEmptyResponseField indicates a successful response omitted a required field.
var ErrEmptyResponseField = errors.New("response field is empty")

// Platform is the subset of a hosted git platform API used to cut releases.
type Platform interface {
	DefaultBranch(executionContext context.Context, ownerName string, repositoryName string) (string, error)
	BranchHeadSHA(executionContext context.Context, ownerName string, repositoryName string, branchName string) (string, error)
	CreateBranchRef(executionContext context.Context, ownerName string, repositoryName string, branchName string, commitSHA string) error
	DispatchWorkflow(executionContext context.Context, ownerName string, repositoryName string, workflowName string, ref string, releaseBranch string) error
}

// PlatformFactory builds a Platform authenticated with token.
type PlatformFactory func(token string) (Platform, error)

// ResponseError reports a non-success HTTP status together with the raw response body.
type ResponseError struct {
	Operation  string
	StatusCode int
	Body       string
}

// Error includes the body so operators can follow up manually.
func (responseError ResponseError) Error() string {
	trimmedBody := strings.TrimSpace(responseError.Body)
	if len(trimmedBody) == 0 {
		return fmt.Sprintf(responseErrorWithoutBodyTemplate, responseError.Operation, responseError.StatusCode)
	}
	return fmt.Sprintf(responseErrorTemplateConstant, responseError.Operation, responseError.StatusCode, trimmedBody)
}
