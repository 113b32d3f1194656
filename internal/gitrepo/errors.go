package gitrepo

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/temirov/repoforge/internal/execshell"
)

const (
	commandErrorTemplateConstant          = "%s failed: %s"
	commandErrorWithCauseTemplateConstant = "%s failed (%s): %s"

	authenticationFailedFragmentConstant = "authentication failed"
	invalidCredentialsFragmentConstant   = "invalid username or password"
	usernamePromptFragmentConstant       = "could not read username"
	passwordPromptFragmentConstant       = "could not read password"
	remoteExistsFragmentConstant         = "already exists"
	nothingToCommitFragmentConstant      = "nothing to commit"
	noChangesAddedFragmentConstant       = "no changes added to commit"
	nonFastForwardFragmentConstant       = "non-fast-forward"
	fetchFirstFragmentConstant           = "fetch first"
	rejectedFragmentConstant             = "[rejected]"
	resolveHostFragmentConstant          = "could not resolve host"
	timedOutFragmentConstant             = "timed out"
	connectionRefusedFragmentConstant    = "connection refused"
	unableToAccessFragmentConstant       = "unable to access"
)

// FailureKind classifies Git command failures into actionable categories.
type FailureKind string

// Failure kind enumerations.
const (
	FailureKindUnknown                FailureKind = "unknown"
	FailureKindNotInstalled           FailureKind = "git_not_installed"
	FailureKindAlreadyInitialized     FailureKind = "repository_already_initialized"
	FailureKindNothingToCommit        FailureKind = "nothing_to_commit"
	FailureKindRemoteExists           FailureKind = "remote_already_exists"
	FailureKindAuthenticationFailed   FailureKind = "authentication_failed"
	FailureKindNetworkTimeout         FailureKind = "network_timeout"
	FailureKindRejectedNonFastForward FailureKind = "rejected_non_fast_forward"
)

// CommandError reports a classified Git command failure with credential-free detail.
type CommandError struct {
	Operation OperationName
	Kind      FailureKind
	Detail    string
	Cause     error
}

// Error describes the classified failure.
func (commandError CommandError) Error() string {
	if len(commandError.Detail) == 0 {
		return fmt.Sprintf(commandErrorTemplateConstant, commandError.Operation, commandError.Kind)
	}
	return fmt.Sprintf(commandErrorWithCauseTemplateConstant, commandError.Operation, commandError.Kind, commandError.Detail)
}

// Unwrap exposes the underlying execution error.
func (commandError CommandError) Unwrap() error {
	return commandError.Cause
}

// ScrubCredentialURLs removes embedded userinfo from URLs inside command output.
func ScrubCredentialURLs(text string) string {
	return execshell.ScrubCredentialURLs(text)
}

func classifyExecutionFailure(operation OperationName, executionError error) error {
	var commandFailure execshell.CommandFailedError
	if errors.As(executionError, &commandFailure) {
		combinedOutput := strings.ToLower(commandFailure.Result.StandardError + "\n" + commandFailure.Result.StandardOutput)
		return CommandError{
			Operation: operation,
			Kind:      classifyOutputFragments(combinedOutput),
			Detail:    summarizeFailureDetail(commandFailure.Result),
			Cause:     executionError,
		}
	}

	var executionFailure execshell.CommandExecutionError
	if errors.As(executionError, &executionFailure) {
		if errors.Is(executionFailure.Cause, exec.ErrNotFound) {
			return CommandError{Operation: operation, Kind: FailureKindNotInstalled, Cause: executionError}
		}
	}

	return CommandError{Operation: operation, Kind: FailureKindUnknown, Detail: executionError.Error(), Cause: executionError}
}

func classifyOutputFragments(combinedOutput string) FailureKind {
	switch {
	case strings.Contains(combinedOutput, authenticationFailedFragmentConstant),
		strings.Contains(combinedOutput, invalidCredentialsFragmentConstant),
		strings.Contains(combinedOutput, usernamePromptFragmentConstant),
		strings.Contains(combinedOutput, passwordPromptFragmentConstant):
		return FailureKindAuthenticationFailed
	case strings.Contains(combinedOutput, nonFastForwardFragmentConstant),
		strings.Contains(combinedOutput, fetchFirstFragmentConstant),
		strings.Contains(combinedOutput, rejectedFragmentConstant):
		return FailureKindRejectedNonFastForward
	case strings.Contains(combinedOutput, resolveHostFragmentConstant),
		strings.Contains(combinedOutput, timedOutFragmentConstant),
		strings.Contains(combinedOutput, connectionRefusedFragmentConstant),
		strings.Contains(combinedOutput, unableToAccessFragmentConstant):
		return FailureKindNetworkTimeout
	case strings.Contains(combinedOutput, nothingToCommitFragmentConstant),
		strings.Contains(combinedOutput, noChangesAddedFragmentConstant):
		return FailureKindNothingToCommit
	case strings.Contains(combinedOutput, remoteExistsFragmentConstant):
		return FailureKindRemoteExists
	default:
		return FailureKindUnknown
	}
}

func summarizeFailureDetail(result execshell.ExecutionResult) string {
	detailSource := strings.TrimSpace(result.StandardError)
	if len(detailSource) == 0 {
		detailSource = strings.TrimSpace(result.StandardOutput)
	}

	scrubbedDetail := ScrubCredentialURLs(detailSource)
	detailLines := strings.Split(scrubbedDetail, "\n")
	return strings.TrimSpace(detailLines[0])
}
