package migration

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/temirov/repoforge/internal/githubcli"
	"github.com/temirov/repoforge/internal/gitrepo"
)

const (
	serviceDependenciesMissingMessageConstant = "migration service requires a repository manager and a provisioner"
	repositoryNameTakenMessageConstant        = "repository name already in use on this account"

	defaultBranchNameConstant = "main"
	defaultRemoteNameConstant = "origin"

	logMessageMigrationStartedConstant   = "Migration started"
	logMessageMigrationCompletedConstant = "Migration completed"
	logMessageMigrationFailedConstant    = "Migration failed"
	logFieldSourcePathConstant           = "source_path"
	logFieldRepositoryNameConstant       = "repository_name"
	logFieldVisibilityConstant           = "visibility"
	logFieldRepositoryURLConstant        = "repository_url"
	logFieldMarkersCreatedConstant       = "markers_created"
	logFieldFilesStagedConstant          = "files_staged"
	logFieldCompletedStepsConstant       = "completed_steps"

	checkExistsOperationNameConstant = githubcli.OperationName("CheckRepositoryExists")
)

// ErrServiceDependenciesMissing indicates the service was constructed without
// its required collaborators.
var ErrServiceDependenciesMissing = errors.New(serviceDependenciesMissingMessageConstant)

// RepositoryProvisioner is the hosting API surface consumed by the service.
type RepositoryProvisioner interface {
	ValidateToken(executionContext context.Context, token string) (githubcli.TokenIdentity, error)
	CheckRepositoryExists(executionContext context.Context, token string, owner string, repositoryName string) (bool, error)
	CreateRepository(executionContext context.Context, token string, specification githubcli.RepositorySpecification) (githubcli.ProvisionedRepository, error)
}

// ServiceDependencies enumerates the collaborators required by NewService.
type ServiceDependencies struct {
	Logger            *zap.Logger
	RepositoryManager GitRepository
	Provisioner       RepositoryProvisioner
	Normalizer        TreeNormalizer
}

// Service orchestrates migration runs: it validates requests, serializes
// runs per source path, provisions the remote repository, and drives the
// operation pipeline.
type Service struct {
	logger        *zap.Logger
	pipeline      *OperationPipeline
	provisioner   RepositoryProvisioner
	inFlightMutex sync.Mutex
	inFlightPaths map[string]struct{}
}

// RunOutcome pairs the terminal result of a background run with its error.
type RunOutcome struct {
	Result Result
	Err    error
}

// NewService constructs a migration Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil || dependencies.Provisioner == nil || dependencies.Normalizer == nil {
		return nil, ErrServiceDependenciesMissing
	}

	pipeline, pipelineError := NewOperationPipeline(dependencies.RepositoryManager, dependencies.Normalizer)
	if pipelineError != nil {
		return nil, pipelineError
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:        logger,
		pipeline:      pipeline,
		provisioner:   dependencies.Provisioner,
		inFlightPaths: map[string]struct{}{},
	}, nil
}

// Run executes the migration on a dedicated background goroutine and delivers
// the terminal outcome over the returned channel. Progress streams through
// the sink in transition order before the outcome arrives.
func (service *Service) Run(executionContext context.Context, request Request, sink ProgressSink) <-chan RunOutcome {
	outcomes := make(chan RunOutcome, 1)

	go func() {
		defer close(outcomes)
		result, executionError := service.Execute(executionContext, request, sink)
		outcomes <- RunOutcome{Result: result, Err: executionError}
	}()

	return outcomes
}

// Execute runs the migration synchronously on the calling goroutine.
//
// A second call for the same normalized source path while one run is in
// flight fails immediately with ErrMigrationInFlight rather than queueing.
func (service *Service) Execute(executionContext context.Context, request Request, sink ProgressSink) (Result, error) {
	sanitizedRequest := sanitizeRequest(request)

	if validationError := ValidateRequest(sanitizedRequest); validationError != nil {
		return Result{}, validationError
	}

	normalizedSourcePath, normalizationError := normalizeSourcePath(sanitizedRequest.SourcePath)
	if normalizationError != nil {
		return Result{}, FileSystemError{Path: sanitizedRequest.SourcePath, Cause: normalizationError}
	}
	sanitizedRequest.SourcePath = normalizedSourcePath

	if !service.acquireSourcePath(normalizedSourcePath) {
		return Result{}, ErrMigrationInFlight
	}
	defer service.releaseSourcePath(normalizedSourcePath)

	service.logger.Info(
		logMessageMigrationStartedConstant,
		zap.String(logFieldSourcePathConstant, sanitizedRequest.SourcePath),
		zap.String(logFieldRepositoryNameConstant, sanitizedRequest.RepositoryName),
		zap.String(logFieldVisibilityConstant, string(sanitizedRequest.Visibility)),
	)

	result, pipelineError := service.pipeline.Run(executionContext, sanitizedRequest, service.remoteTargetProvider(sanitizedRequest), sink)
	if pipelineError != nil {
		service.logger.Warn(
			logMessageMigrationFailedConstant,
			zap.String(logFieldSourcePathConstant, sanitizedRequest.SourcePath),
			zap.Int(logFieldCompletedStepsConstant, len(result.Steps)),
			zap.Error(pipelineError),
		)
		return result, pipelineError
	}

	service.logger.Info(
		logMessageMigrationCompletedConstant,
		zap.String(logFieldSourcePathConstant, sanitizedRequest.SourcePath),
		zap.String(logFieldRepositoryURLConstant, result.RepositoryURL),
		zap.Int(logFieldMarkersCreatedConstant, result.MarkersCreated),
		zap.Int(logFieldFilesStagedConstant, result.FilesStaged),
	)

	return result, nil
}

func (service *Service) remoteTargetProvider(request Request) RemoteTargetProvider {
	return func(executionContext context.Context) (RemoteTarget, error) {
		identity, validationError := service.provisioner.ValidateToken(executionContext, request.Token)
		if validationError != nil {
			return RemoteTarget{}, validationError
		}

		repositoryExists, existenceError := service.provisioner.CheckRepositoryExists(executionContext, request.Token, identity.Login, request.RepositoryName)
		if existenceError != nil {
			return RemoteTarget{}, existenceError
		}
		if repositoryExists {
			return RemoteTarget{}, githubcli.ProvisioningError{
				Operation: checkExistsOperationNameConstant,
				Kind:      githubcli.FailureKindNameTaken,
				Detail:    repositoryNameTakenMessageConstant,
			}
		}

		provisionedRepository, creationError := service.provisioner.CreateRepository(executionContext, request.Token, githubcli.RepositorySpecification{
			Name:        request.RepositoryName,
			Private:     request.Visibility == VisibilityPrivate,
			Description: request.Description,
		})
		if creationError != nil {
			return RemoteTarget{}, creationError
		}

		remoteURL, remoteURLError := canonicalRemoteURL(provisionedRepository)
		if remoteURLError != nil {
			return RemoteTarget{}, remoteURLError
		}

		repositoryURL := provisionedRepository.HTMLURL
		if len(repositoryURL) == 0 {
			repositoryURL = provisionedRepository.CloneURL
		}

		return RemoteTarget{
			RemoteURL:     remoteURL,
			RepositoryURL: repositoryURL,
			OwnerLogin:    provisionedRepository.Owner,
		}, nil
	}
}

func canonicalRemoteURL(provisionedRepository githubcli.ProvisionedRepository) (string, error) {
	parsedRemote, parseError := gitrepo.ParseRemoteURL(provisionedRepository.CloneURL)
	if parseError != nil {
		return "", parseError
	}
	return gitrepo.FormatRemoteURL(parsedRemote)
}

func (service *Service) acquireSourcePath(sourcePath string) bool {
	service.inFlightMutex.Lock()
	defer service.inFlightMutex.Unlock()

	if _, alreadyRunning := service.inFlightPaths[sourcePath]; alreadyRunning {
		return false
	}
	service.inFlightPaths[sourcePath] = struct{}{}
	return true
}

func (service *Service) releaseSourcePath(sourcePath string) {
	service.inFlightMutex.Lock()
	defer service.inFlightMutex.Unlock()
	delete(service.inFlightPaths, sourcePath)
}

func sanitizeRequest(request Request) Request {
	sanitized := request
	sanitized.SourcePath = strings.TrimSpace(request.SourcePath)
	sanitized.RepositoryName = strings.TrimSpace(request.RepositoryName)
	sanitized.Description = strings.TrimSpace(request.Description)
	sanitized.BranchName = strings.TrimSpace(request.BranchName)
	sanitized.RemoteName = strings.TrimSpace(request.RemoteName)
	sanitized.Token = strings.TrimSpace(request.Token)

	if len(sanitized.BranchName) == 0 {
		sanitized.BranchName = defaultBranchNameConstant
	}
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaultRemoteNameConstant
	}
	if len(sanitized.Visibility) == 0 {
		sanitized.Visibility = VisibilityPrivate
	}

	return sanitized
}

func normalizeSourcePath(sourcePath string) (string, error) {
	absolutePath, absoluteError := filepath.Abs(sourcePath)
	if absoluteError != nil {
		return "", absoluteError
	}
	return filepath.Clean(absolutePath), nil
}
