package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/releasecut/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    gitrepo.RemoteURL
		expectError bool
	}{
		{
			name:     "scp_style_ssh",
			input:    "git@github.com:acme/billing.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "acme", Repository: "billing"},
		},
		{
			name:     "ssh_scheme",
			input:    "ssh://git@github.com/acme/billing.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "acme", Repository: "billing"},
		},
		{
			name:     "https_with_credentials",
			input:    "https://token@github.com/acme/billing.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "github.com", Owner: "acme", Repository: "billing"},
		},
		{
			name:     "https_nested_group",
			input:    "https://gitlab.example.com/platform/payments/billing",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "gitlab.example.com", Owner: "platform/payments", Repository: "billing"},
		},
		{
			name:     "http_scheme",
			input:    "http://localhost:3000/acme/billing.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTP, Host: "localhost:3000", Owner: "acme", Repository: "billing"},
		},
		{name: "empty", input: "   ", expectError: true},
		{name: "unsupported_scheme", input: "ftp://example.com/acme/billing", expectError: true},
		{name: "missing_owner", input: "https://github.com/billing", expectError: true},
		{name: "empty_repository", input: "git@github.com:acme/.git", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsed, parseError := gitrepo.ParseRemoteURL(testCase.input)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				var remoteError gitrepo.RemoteURLParseError
				require.ErrorAs(testInstance, parseError, &remoteError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, parsed)
		})
	}
}
