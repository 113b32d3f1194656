package migration

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/repoforge/internal/gitrepo"
	"github.com/temirov/repoforge/internal/normalize"
)

const (
	pipelineNotConfiguredMessageConstant = "operation pipeline requires a repository manager and a normalizer"
	gitMetadataDirectoryNameConstant     = ".git"
	initializeOperationNameConstant      = gitrepo.OperationName("InitializeRepository")
	commitOperationNameConstant          = gitrepo.OperationName("CreateCommit")
)

// ErrPipelineNotConfigured indicates the pipeline was constructed without dependencies.
var ErrPipelineNotConfigured = errors.New(pipelineNotConfiguredMessageConstant)

// GitRepository is the Git operation surface consumed by the pipeline.
type GitRepository interface {
	HasRepositoryMetadata(repositoryPath string) (bool, error)
	InitializeRepository(executionContext context.Context, repositoryPath string) error
	StageAll(executionContext context.Context, repositoryPath string) error
	CreateCommit(executionContext context.Context, repositoryPath string, commitMessage string) error
	RemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, bool, error)
	AddRemote(executionContext context.Context, repositoryPath string, remoteName string, remoteURL string) error
	RemoveRemote(executionContext context.Context, repositoryPath string, remoteName string) error
	CurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	RenameCurrentBranch(executionContext context.Context, repositoryPath string, branchName string) error
	PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string, credentials gitrepo.PushCredentials) error
}

// TreeNormalizer plants markers inside leaf-empty directories.
type TreeNormalizer interface {
	NormalizeTree(rootPath string) (normalize.Outcome, error)
}

// RemoteTarget carries the provisioned remote destination for the pipeline's
// remote-configuring steps.
type RemoteTarget struct {
	RemoteURL     string
	RepositoryURL string
	OwnerLogin    string
}

// RemoteTargetProvider resolves the remote destination. It runs after Commit
// succeeds and before ConfigureRemote starts so provisioning failures halt the
// run without touching remote configuration.
type RemoteTargetProvider func(executionContext context.Context) (RemoteTarget, error)

// OperationPipeline executes the fixed, ordered sequence of version-control
// operations for one migration run.
type OperationPipeline struct {
	repositoryManager GitRepository
	normalizer        TreeNormalizer
}

// NewOperationPipeline constructs an OperationPipeline.
func NewOperationPipeline(repositoryManager GitRepository, normalizer TreeNormalizer) (*OperationPipeline, error) {
	if repositoryManager == nil || normalizer == nil {
		return nil, ErrPipelineNotConfigured
	}
	return &OperationPipeline{repositoryManager: repositoryManager, normalizer: normalizer}, nil
}

type runState struct {
	markersCreated  int
	filesStaged     int
	bytesStaged     int64
	unreadablePaths []string
	remoteTarget    RemoteTarget
}

func (state *runState) apply(result *Result) {
	result.MarkersCreated = state.markersCreated
	result.FilesStaged = state.filesStaged
	result.UnreadablePaths = state.unreadablePaths
}

// Run executes every pipeline step in order, publishing each transition to
// the sink. Cancellation is honored at step boundaries only; an in-flight
// external call always runs to completion. The returned Result preserves the
// outcomes of every step that ran, including the failing one.
func (pipeline *OperationPipeline) Run(executionContext context.Context, request Request, remoteProvider RemoteTargetProvider, sink ProgressSink) (Result, error) {
	state := &runState{}
	result := Result{}

	for _, stepName := range PipelineStepNames() {
		if contextError := executionContext.Err(); contextError != nil {
			state.apply(&result)
			return result, contextError
		}

		if stepName == StepConfigureRemote {
			remoteTarget, provisioningError := pipeline.resolveRemoteTarget(executionContext, remoteProvider)
			if provisioningError != nil {
				state.apply(&result)
				return result, provisioningError
			}
			state.remoteTarget = remoteTarget
			result.RepositoryURL = remoteTarget.RepositoryURL
		}

		publishTransition(sink, StepResult{Name: stepName, State: StepStateRunning})

		stepMetrics, stepError := pipeline.executeStep(executionContext, stepName, request, state)
		if stepError != nil {
			failedStep := StepResult{Name: stepName, State: StepStateFailed, Err: stepError, Metrics: stepMetrics}
			result.Steps = append(result.Steps, failedStep)
			publishTransition(sink, failedStep)
			state.apply(&result)
			return result, StepFailureError{Step: stepName, Cause: stepError}
		}

		succeededStep := StepResult{Name: stepName, State: StepStateSucceeded, Metrics: stepMetrics}
		result.Steps = append(result.Steps, succeededStep)
		publishTransition(sink, succeededStep)
	}

	state.apply(&result)
	return result, nil
}

func (pipeline *OperationPipeline) resolveRemoteTarget(executionContext context.Context, remoteProvider RemoteTargetProvider) (RemoteTarget, error) {
	if remoteProvider == nil {
		return RemoteTarget{}, ProvisioningFailureError{Cause: ErrPipelineNotConfigured}
	}

	remoteTarget, provisioningError := remoteProvider(executionContext)
	if provisioningError != nil {
		return RemoteTarget{}, ProvisioningFailureError{Cause: provisioningError}
	}
	return remoteTarget, nil
}

func (pipeline *OperationPipeline) executeStep(executionContext context.Context, stepName StepName, request Request, state *runState) (StepMetrics, error) {
	switch stepName {
	case StepInitialize:
		return StepMetrics{}, pipeline.initialize(executionContext, request)
	case StepNormalize:
		return pipeline.normalizeTree(request, state)
	case StepStage:
		return pipeline.stage(executionContext, request, state)
	case StepCommit:
		return StepMetrics{}, pipeline.commit(executionContext, request, state)
	case StepConfigureRemote:
		return pipeline.configureRemote(executionContext, request, state)
	case StepRenameDefaultBranch:
		return StepMetrics{}, pipeline.renameDefaultBranch(executionContext, request)
	case StepPush:
		return StepMetrics{}, pipeline.push(executionContext, request, state)
	default:
		return StepMetrics{}, ErrPipelineNotConfigured
	}
}

func (pipeline *OperationPipeline) initialize(executionContext context.Context, request Request) error {
	metadataPresent, metadataError := pipeline.repositoryManager.HasRepositoryMetadata(request.SourcePath)
	if metadataError != nil {
		return FileSystemError{Path: request.SourcePath, Cause: metadataError}
	}

	if metadataPresent {
		if request.RequireFreshRepository {
			return gitrepo.CommandError{Operation: initializeOperationNameConstant, Kind: gitrepo.FailureKindAlreadyInitialized}
		}
		return nil
	}

	return pipeline.repositoryManager.InitializeRepository(executionContext, request.SourcePath)
}

func (pipeline *OperationPipeline) normalizeTree(request Request, state *runState) (StepMetrics, error) {
	outcome, normalizationError := pipeline.normalizer.NormalizeTree(request.SourcePath)
	if normalizationError != nil {
		return StepMetrics{}, FileSystemError{Path: request.SourcePath, Cause: normalizationError}
	}

	state.markersCreated = len(outcome.MarkersCreated)
	for _, unreadablePath := range outcome.UnreadablePaths {
		state.unreadablePaths = append(state.unreadablePaths, unreadablePath.Path)
	}

	return StepMetrics{MarkersCreated: state.markersCreated}, nil
}

func (pipeline *OperationPipeline) stage(executionContext context.Context, request Request, state *runState) (StepMetrics, error) {
	fileCount, totalBytes, measurementError := measureStageableContent(request.SourcePath)
	if measurementError != nil {
		return StepMetrics{}, measurementError
	}

	if stagingError := pipeline.repositoryManager.StageAll(executionContext, request.SourcePath); stagingError != nil {
		return StepMetrics{}, stagingError
	}

	state.filesStaged = fileCount
	state.bytesStaged = totalBytes
	return StepMetrics{FilesStaged: fileCount, BytesStaged: totalBytes}, nil
}

func (pipeline *OperationPipeline) commit(executionContext context.Context, request Request, state *runState) error {
	if state.filesStaged == 0 {
		return gitrepo.CommandError{Operation: commitOperationNameConstant, Kind: gitrepo.FailureKindNothingToCommit}
	}
	if len(strings.TrimSpace(request.CommitMessage)) == 0 {
		return ValidationError{Field: commitMessageFieldNameConstant, Message: requiredMessageConstant}
	}

	return pipeline.repositoryManager.CreateCommit(executionContext, request.SourcePath, request.CommitMessage)
}

func (pipeline *OperationPipeline) configureRemote(executionContext context.Context, request Request, state *runState) (StepMetrics, error) {
	_, remotePresent, remoteError := pipeline.repositoryManager.RemoteURL(executionContext, request.SourcePath, request.RemoteName)
	if remoteError != nil {
		return StepMetrics{}, remoteError
	}

	if remotePresent {
		if removalError := pipeline.repositoryManager.RemoveRemote(executionContext, request.SourcePath, request.RemoteName); removalError != nil {
			return StepMetrics{}, removalError
		}
	}

	if additionError := pipeline.repositoryManager.AddRemote(executionContext, request.SourcePath, request.RemoteName, state.remoteTarget.RemoteURL); additionError != nil {
		return StepMetrics{}, additionError
	}

	return StepMetrics{RemoteReplaced: remotePresent}, nil
}

func (pipeline *OperationPipeline) renameDefaultBranch(executionContext context.Context, request Request) error {
	currentBranch, branchError := pipeline.repositoryManager.CurrentBranch(executionContext, request.SourcePath)
	if branchError != nil {
		return branchError
	}
	if currentBranch == request.BranchName {
		return nil
	}

	return pipeline.repositoryManager.RenameCurrentBranch(executionContext, request.SourcePath, request.BranchName)
}

func (pipeline *OperationPipeline) push(executionContext context.Context, request Request, state *runState) error {
	credentials := gitrepo.PushCredentials{
		Username: state.remoteTarget.OwnerLogin,
		Token:    request.Token,
	}
	return pipeline.repositoryManager.PushBranch(executionContext, request.SourcePath, request.RemoteName, request.BranchName, credentials)
}

func measureStageableContent(rootPath string) (int, int64, error) {
	fileCount := 0
	totalBytes := int64(0)

	walkError := filepath.WalkDir(rootPath, func(currentPath string, entry fs.DirEntry, visitError error) error {
		if visitError != nil {
			return FileSystemError{Path: currentPath, Cause: visitError}
		}
		if entry.IsDir() {
			if entry.Name() == gitMetadataDirectoryNameConstant && currentPath != rootPath {
				return fs.SkipDir
			}
			return nil
		}

		entryInfo, infoError := entry.Info()
		if infoError != nil {
			return FileSystemError{Path: currentPath, Cause: infoError}
		}

		fileCount++
		totalBytes += entryInfo.Size()
		return nil
	})
	if walkError != nil {
		return 0, 0, walkError
	}

	return fileCount, totalBytes, nil
}

func publishTransition(sink ProgressSink, step StepResult) {
	if sink == nil {
		return
	}
	sink.StepTransition(step)
}
