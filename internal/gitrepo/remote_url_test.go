package gitrepo_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoforge/internal/gitrepo"
)

const remoteURLSubtestTemplateConstant = "%d_%s"

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    gitrepo.RemoteURL
		expectError bool
	}{
		{
			name:  "https_with_git_suffix",
			input: "https://github.com/octocat/sample.git",
			expected: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolHTTPS,
				Host:       "github.com",
				Owner:      "octocat",
				Repository: "sample",
			},
		},
		{
			name:  "https_without_git_suffix",
			input: "https://github.com/octocat/sample",
			expected: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolHTTPS,
				Host:       "github.com",
				Owner:      "octocat",
				Repository: "sample",
			},
		},
		{
			name:  "ssh_scp_syntax",
			input: "git@github.com:octocat/sample.git",
			expected: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolSSH,
				Host:       "github.com",
				Owner:      "octocat",
				Repository: "sample",
			},
		},
		{
			name:  "ssh_protocol_prefix",
			input: "ssh://git@github.com/octocat/sample.git",
			expected: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolSSH,
				Host:       "github.com",
				Owner:      "octocat",
				Repository: "sample",
			},
		},
		{
			name:        "empty_input",
			input:       "   ",
			expectError: true,
		},
		{
			name:        "unsupported_protocol",
			input:       "ftp://github.com/octocat/sample.git",
			expectError: true,
		},
		{
			name:        "https_missing_repository",
			input:       "https://github.com/octocat",
			expectError: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(remoteURLSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			parsedRemote, parseError := gitrepo.ParseRemoteURL(testCase.input)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, parsedRemote)
		})
	}
}

func TestFormatRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name        string
		input       gitrepo.RemoteURL
		expected    string
		expectError bool
	}{
		{
			name: "https_format",
			input: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolHTTPS,
				Host:       "github.com",
				Owner:      "octocat",
				Repository: "sample",
			},
			expected: "https://github.com/octocat/sample.git",
		},
		{
			name: "ssh_format",
			input: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolSSH,
				Host:       "github.com",
				Owner:      "octocat",
				Repository: "sample",
			},
			expected: "git@github.com:octocat/sample.git",
		},
		{
			name: "missing_owner",
			input: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocolHTTPS,
				Host:       "github.com",
				Repository: "sample",
			},
			expectError: true,
		},
		{
			name: "unsupported_protocol",
			input: gitrepo.RemoteURL{
				Protocol:   gitrepo.RemoteProtocol("ftp"),
				Host:       "github.com",
				Owner:      "octocat",
				Repository: "sample",
			},
			expectError: true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(remoteURLSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			formattedRemote, formatError := gitrepo.FormatRemoteURL(testCase.input)
			if testCase.expectError {
				require.Error(testInstance, formatError)
				return
			}
			require.NoError(testInstance, formatError)
			require.Equal(testInstance, testCase.expected, formattedRemote)
		})
	}
}
