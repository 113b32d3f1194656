package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/repoforge/internal/execshell"
)

const (
	gitMetadataDirectoryNameConstant = ".git"

	initSubcommandConstant      = "init"
	addSubcommandConstant       = "add"
	commitSubcommandConstant    = "commit"
	remoteSubcommandConstant    = "remote"
	remoteAddSubcommandConstant = "add"
	remoteRemoveSubcommand      = "remove"
	remoteGetURLSubcommand      = "get-url"
	branchSubcommandConstant    = "branch"
	revParseSubcommandConstant  = "rev-parse"
	pushSubcommandConstant      = "push"

	allPathsArgumentConstant        = "."
	messageFlagConstant             = "-m"
	forceRenameFlagConstant         = "-M"
	abbreviatedReferenceFlag        = "--abbrev-ref"
	headReferenceConstant           = "HEAD"
	setUpstreamFlagConstant         = "--set-upstream"
	configDirectiveFlagConstant     = "-c"
	credentialHelperResetConstant   = "credential.helper="
	credentialHelperScriptConstant  = `credential.helper=!f() { echo "username=${GIT_ASKPASS_USERNAME}"; echo "password=${GIT_ASKPASS_PASSWORD}"; }; f`
	credentialUsernameVariableName  = "GIT_ASKPASS_USERNAME"
	credentialPasswordVariableName  = "GIT_ASKPASS_PASSWORD"
	terminalPromptVariableName      = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledConstant  = "0"
	executorNotConfiguredMessage    = "git repository manager requires an executor"
	noSuchRemoteFragmentConstant    = "no such remote"
	defaultPushCredentialUsername   = "x-access-token"
	initializeRepositoryOperation   = OperationName("InitializeRepository")
	stageAllOperationNameConstant   = OperationName("StageAll")
	createCommitOperationName       = OperationName("CreateCommit")
	addRemoteOperationNameConstant  = OperationName("AddRemote")
	removeRemoteOperationName       = OperationName("RemoveRemote")
	remoteURLOperationNameConstant  = OperationName("RemoteURL")
	currentBranchOperationName      = OperationName("CurrentBranch")
	renameBranchOperationName       = OperationName("RenameCurrentBranch")
	pushBranchOperationNameConstant = OperationName("PushBranch")
)

// OperationName identifies a Git workflow performed by RepositoryManager.
type OperationName string

// ErrExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessage)

// GitCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PushCredentials carries the secret material used to authenticate a push.
// The token is handed to git through process environment variables only and
// never appears in command arguments or captured output.
type PushCredentials struct {
	Username string
	Token    string
}

// RepositoryManager coordinates Git operations through execshell.
type RepositoryManager struct {
	executor GitCommandExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitCommandExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// HasRepositoryMetadata reports whether the directory already carries Git metadata.
func (manager *RepositoryManager) HasRepositoryMetadata(repositoryPath string) (bool, error) {
	metadataPath := filepath.Join(repositoryPath, gitMetadataDirectoryNameConstant)
	metadataInfo, statError := os.Stat(metadataPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return false, nil
		}
		return false, statError
	}
	return metadataInfo.IsDir(), nil
}

// InitializeRepository runs git init inside the directory.
func (manager *RepositoryManager) InitializeRepository(executionContext context.Context, repositoryPath string) error {
	details := execshell.CommandDetails{
		Arguments:        []string{initSubcommandConstant},
		WorkingDirectory: repositoryPath,
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return classifyExecutionFailure(initializeRepositoryOperation, executionError)
	}
	return nil
}

// StageAll stages every file beneath the directory.
func (manager *RepositoryManager) StageAll(executionContext context.Context, repositoryPath string) error {
	details := execshell.CommandDetails{
		Arguments:        []string{addSubcommandConstant, allPathsArgumentConstant},
		WorkingDirectory: repositoryPath,
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return classifyExecutionFailure(stageAllOperationNameConstant, executionError)
	}
	return nil
}

// CreateCommit records the staged content with the provided message.
func (manager *RepositoryManager) CreateCommit(executionContext context.Context, repositoryPath string, commitMessage string) error {
	details := execshell.CommandDetails{
		Arguments:        []string{commitSubcommandConstant, messageFlagConstant, commitMessage},
		WorkingDirectory: repositoryPath,
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return classifyExecutionFailure(createCommitOperationName, executionError)
	}
	return nil
}

// RemoteURL resolves the URL configured for the named remote, reporting presence.
func (manager *RepositoryManager) RemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, bool, error) {
	details := execshell.CommandDetails{
		Arguments:        []string{remoteSubcommandConstant, remoteGetURLSubcommand, remoteName},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if errors.As(executionError, &commandFailure) {
			combinedOutput := strings.ToLower(commandFailure.Result.StandardError)
			if strings.Contains(combinedOutput, noSuchRemoteFragmentConstant) {
				return "", false, nil
			}
		}
		return "", false, classifyExecutionFailure(remoteURLOperationNameConstant, executionError)
	}

	return strings.TrimSpace(executionResult.StandardOutput), true, nil
}

// AddRemote registers a named remote pointing at the provided URL.
func (manager *RepositoryManager) AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error {
	details := execshell.CommandDetails{
		Arguments:        []string{remoteSubcommandConstant, remoteAddSubcommandConstant, remoteName, remoteURL},
		WorkingDirectory: repositoryPath,
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return classifyExecutionFailure(addRemoteOperationNameConstant, executionError)
	}
	return nil
}

// RemoveRemote deletes the named remote.
func (manager *RepositoryManager) RemoveRemote(executionContext context.Context, repositoryPath string, remoteName string) error {
	details := execshell.CommandDetails{
		Arguments:        []string{remoteSubcommandConstant, remoteRemoveSubcommand, remoteName},
		WorkingDirectory: repositoryPath,
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return classifyExecutionFailure(removeRemoteOperationName, executionError)
	}
	return nil
}

// CurrentBranch resolves the branch currently checked out.
func (manager *RepositoryManager) CurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	details := execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, abbreviatedReferenceFlag, headReferenceConstant},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return "", classifyExecutionFailure(currentBranchOperationName, executionError)
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// RenameCurrentBranch forces the checked-out branch onto the provided name.
func (manager *RepositoryManager) RenameCurrentBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	details := execshell.CommandDetails{
		Arguments:        []string{branchSubcommandConstant, forceRenameFlagConstant, branchName},
		WorkingDirectory: repositoryPath,
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return classifyExecutionFailure(renameBranchOperationName, executionError)
	}
	return nil
}

// PushBranch publishes the branch to the named remote with upstream tracking.
// Credentials travel through a one-shot credential helper reading environment
// variables so the secret never reaches argv, logs, or captured output.
func (manager *RepositoryManager) PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string, credentials PushCredentials) error {
	credentialUsername := strings.TrimSpace(credentials.Username)
	if len(credentialUsername) == 0 {
		credentialUsername = defaultPushCredentialUsername
	}

	details := execshell.CommandDetails{
		Arguments: []string{
			configDirectiveFlagConstant,
			credentialHelperResetConstant,
			configDirectiveFlagConstant,
			credentialHelperScriptConstant,
			pushSubcommandConstant,
			setUpstreamFlagConstant,
			remoteName,
			branchName,
		},
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			credentialUsernameVariableName: credentialUsername,
			credentialPasswordVariableName: credentials.Token,
			terminalPromptVariableName:     terminalPromptDisabledConstant,
		},
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, details)
	if executionError != nil {
		return classifyExecutionFailure(pushBranchOperationNameConstant, executionError)
	}
	return nil
}
