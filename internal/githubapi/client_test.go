package githubapi_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/temirov/releasecut/internal/githubapi"
	"github.com/temirov/releasecut/internal/releases/remoteapi"
)

const (
	testTokenConstant       = "ghp_token"
	testOwnerConstant       = "acme"
	testRepositoryConstant  = "payments-api"
	testHeadSHAConstant     = "9fceb02d0ae598e95dc970b74767f19372d61af8"
	testReleaseDateConstant = "2024-11-05"
)

type recordedRequest struct {
	method        string
	path          string
	authorization string
	userAgent     string
	body          map[string]any
}

type fakeGitHub struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newFakeGitHub(testInstance *testing.T, handler func(writer http.ResponseWriter, request *http.Request)) *fakeGitHub {
	testInstance.Helper()
	fake := &fakeGitHub{}
	fake.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		recorded := recordedRequest{
			method:        request.Method,
			path:          request.URL.EscapedPath(),
			authorization: request.Header.Get("Authorization"),
			userAgent:     request.Header.Get("User-Agent"),
		}
		payload, readError := io.ReadAll(request.Body)
		require.NoError(testInstance, readError)
		if len(payload) > 0 {
			require.NoError(testInstance, json.Unmarshal(payload, &recorded.body))
		}
		fake.requests = append(fake.requests, recorded)
		handler(writer, request)
	}))
	testInstance.Cleanup(fake.server.Close)
	return fake
}

func (fake *fakeGitHub) client(testInstance *testing.T) *githubapi.Client {
	testInstance.Helper()
	client, clientError := githubapi.NewClient(testTokenConstant, githubapi.Options{BaseURL: fake.server.URL})
	require.NoError(testInstance, clientError)
	return client
}

func writeJSON(writer http.ResponseWriter, statusCode int, payload string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(statusCode)
	_, _ = io.WriteString(writer, payload)
}

func TestNewClientRequiresToken(testInstance *testing.T) {
	client, clientError := githubapi.NewClient("  ", githubapi.Options{})
	require.ErrorIs(testInstance, clientError, githubapi.ErrTokenRequired)
	require.Nil(testInstance, client)

	_, urlError := githubapi.NewClient(testTokenConstant, githubapi.Options{BaseURL: "://bad"})
	require.Error(testInstance, urlError)
}

func TestDefaultBranchSendsCredentials(testInstance *testing.T) {
	fake := newFakeGitHub(testInstance, func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, http.StatusOK, `{"name":"payments-api","default_branch":"develop"}`)
	})

	defaultBranch, lookupError := fake.client(testInstance).DefaultBranch(context.Background(), testOwnerConstant, testRepositoryConstant)
	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, "develop", defaultBranch)

	require.Len(testInstance, fake.requests, 1)
	require.Equal(testInstance, http.MethodGet, fake.requests[0].method)
	require.Equal(testInstance, "/repos/acme/payments-api", fake.requests[0].path)
	require.Equal(testInstance, "Bearer "+testTokenConstant, fake.requests[0].authorization)
	require.Equal(testInstance, githubapi.DefaultUserAgent, fake.requests[0].userAgent)
}

func TestDefaultBranchMissingFieldIsEmpty(testInstance *testing.T) {
	fake := newFakeGitHub(testInstance, func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(writer, http.StatusOK, `{"name":"payments-api"}`)
	})

	defaultBranch, lookupError := fake.client(testInstance).DefaultBranch(context.Background(), testOwnerConstant, testRepositoryConstant)
	require.NoError(testInstance, lookupError)
	require.Empty(testInstance, defaultBranch)
}

func TestBranchHeadSHA(testInstance *testing.T) {
	testCases := []struct {
		name         string
		branchName   string
		statusCode   int
		payload      string
		expectedPath string
		expectedSHA  string
		expectError  bool
	}{
		{
			name:         "exact_object",
			branchName:   "main",
			statusCode:   http.StatusOK,
			payload:      `{"ref":"refs/heads/main","object":{"type":"commit","sha":"` + testHeadSHAConstant + `"}}`,
			expectedPath: "/repos/acme/payments-api/git/refs/heads/main",
			expectedSHA:  testHeadSHAConstant,
		},
		{
			name:         "prefix_list_with_exact_match",
			branchName:   "release/2024",
			statusCode:   http.StatusOK,
			payload:      `[{"ref":"refs/heads/release/2024-hotfix","object":{"sha":"aaa"}},{"ref":"refs/heads/release/2024","object":{"sha":"bbb"}}]`,
			expectedPath: "/repos/acme/payments-api/git/refs/heads/release/2024",
			expectedSHA:  "bbb",
		},
		{
			name:         "prefix_list_without_exact_match",
			branchName:   "main",
			statusCode:   http.StatusOK,
			payload:      `[{"ref":"refs/heads/main-legacy","object":{"sha":"aaa"}}]`,
			expectedPath: "/repos/acme/payments-api/git/refs/heads/main",
			expectError:  true,
		},
		{
			name:         "not_found",
			branchName:   "main",
			statusCode:   http.StatusNotFound,
			payload:      `{"message":"Not Found"}`,
			expectedPath: "/repos/acme/payments-api/git/refs/heads/main",
			expectError:  true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fake := newFakeGitHub(testInstance, func(writer http.ResponseWriter, request *http.Request) {
				writeJSON(writer, testCase.statusCode, testCase.payload)
			})

			commitSHA, lookupError := fake.client(testInstance).BranchHeadSHA(context.Background(), testOwnerConstant, testRepositoryConstant, testCase.branchName)
			require.Len(testInstance, fake.requests, 1)
			require.Equal(testInstance, testCase.expectedPath, fake.requests[0].path)
			if testCase.expectError {
				require.Error(testInstance, lookupError)
				return
			}
			require.NoError(testInstance, lookupError)
			require.Equal(testInstance, testCase.expectedSHA, commitSHA)
		})
	}
}

func TestCreateBranchRef(testInstance *testing.T) {
	statusCode := http.StatusCreated
	fake := newFakeGitHub(testInstance, func(writer http.ResponseWriter, request *http.Request) {
		if statusCode == http.StatusCreated {
			writeJSON(writer, statusCode, `{"ref":"refs/heads/release/2024-11-05","object":{"sha":"`+testHeadSHAConstant+`"}}`)
			return
		}
		writeJSON(writer, statusCode, `{"message":"Reference already exists"}`)
	})
	client := fake.client(testInstance)

	require.NoError(testInstance, client.CreateBranchRef(context.Background(), testOwnerConstant, testRepositoryConstant, "release/2024-11-05", testHeadSHAConstant))
	require.Equal(testInstance, http.MethodPost, fake.requests[0].method)
	require.Equal(testInstance, "/repos/acme/payments-api/git/refs", fake.requests[0].path)
	require.Equal(testInstance, map[string]any{"ref": "refs/heads/release/2024-11-05", "sha": testHeadSHAConstant}, fake.requests[0].body)

	statusCode = http.StatusUnprocessableEntity
	createError := client.CreateBranchRef(context.Background(), testOwnerConstant, testRepositoryConstant, "release/2024-11-05", testHeadSHAConstant)
	var responseError remoteapi.ResponseError
	require.ErrorAs(testInstance, createError, &responseError)
	require.Equal(testInstance, http.StatusUnprocessableEntity, responseError.StatusCode)
	require.Equal(testInstance, `{"message":"Reference already exists"}`, responseError.Body)
}

func TestDispatchWorkflow(testInstance *testing.T) {
	fake := newFakeGitHub(testInstance, func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/repos/acme/payments-api/actions/workflows/missing.yml/dispatches" {
			writeJSON(writer, http.StatusNotFound, `{"message":"Not Found"}`)
			return
		}
		writer.WriteHeader(http.StatusNoContent)
	})
	client := fake.client(testInstance)

	require.NoError(testInstance, client.DispatchWorkflow(context.Background(), testOwnerConstant, testRepositoryConstant, "cut-release.yml", "main", "release/2024-11-05"))
	require.Equal(testInstance, "/repos/acme/payments-api/actions/workflows/cut-release.yml/dispatches", fake.requests[0].path)
	require.Equal(testInstance, map[string]any{"ref": "main", "inputs": map[string]any{"branch_name": "release/2024-11-05"}}, fake.requests[0].body)

	require.NoError(testInstance, client.DispatchWorkflow(context.Background(), testOwnerConstant, testRepositoryConstant, "161335", "main", "release/2024-11-05"))
	require.Equal(testInstance, "/repos/acme/payments-api/actions/workflows/161335/dispatches", fake.requests[1].path)

	dispatchError := client.DispatchWorkflow(context.Background(), testOwnerConstant, testRepositoryConstant, "missing.yml", "main", "release/2024-11-05")
	var responseError remoteapi.ResponseError
	require.ErrorAs(testInstance, dispatchError, &responseError)
	require.Equal(testInstance, http.StatusNotFound, responseError.StatusCode)
	require.Contains(testInstance, dispatchError.Error(), `{"message":"Not Found"}`)

	require.ErrorIs(testInstance, client.DispatchWorkflow(context.Background(), testOwnerConstant, testRepositoryConstant, " ", "main", "release/1"), githubapi.ErrWorkflowRequired)
	require.Len(testInstance, fake.requests, 3)
}

func TestTransportFailureIsNotResponseError(testInstance *testing.T) {
	fake := newFakeGitHub(testInstance, func(writer http.ResponseWriter, request *http.Request) {})
	client := fake.client(testInstance)
	fake.server.Close()

	_, lookupError := client.DefaultBranch(context.Background(), testOwnerConstant, testRepositoryConstant)
	require.Error(testInstance, lookupError)
	var responseError remoteapi.ResponseError
	require.False(testInstance, errors.As(lookupError, &responseError))
	require.Contains(testInstance, lookupError.Error(), "get repository")
}
