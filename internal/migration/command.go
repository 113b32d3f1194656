package migration

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/repoforge/internal/execshell"
	"github.com/temirov/repoforge/internal/githubcli"
	"github.com/temirov/repoforge/internal/gitrepo"
	"github.com/temirov/repoforge/internal/normalize"
	"github.com/temirov/repoforge/internal/utils"
)

const (
	commandUseConstant              = "create"
	commandShortDescriptionConstant = "Migrate a local directory into a new GitHub repository"
	commandLongDescriptionConstant  = "create normalizes the source tree so empty directories survive version control, provisions the repository on GitHub, and runs the initialize, stage, commit, remote, branch, and push sequence while streaming per-step progress."

	sourceFlagNameConstant       = "source"
	sourceFlagUsageConstant      = "Path of the directory to migrate"
	nameFlagNameConstant         = "name"
	nameFlagUsageConstant        = "Name of the repository to create"
	visibilityFlagNameConstant   = "visibility"
	visibilityFlagUsageConstant  = "Repository visibility (private or public)"
	descriptionFlagNameConstant  = "description"
	descriptionFlagUsageConstant = "Repository description"
	messageFlagNameConstant      = "message"
	messageFlagUsageConstant     = "Commit message for the initial commit"
	branchFlagNameConstant       = "branch"
	branchFlagUsageConstant      = "Name for the default branch"
	remoteFlagNameConstant       = "remote"
	remoteFlagUsageConstant      = "Name for the configured remote"
	freshFlagNameConstant        = "fresh"
	freshFlagUsageConstant       = "Fail when the source directory already contains repository metadata"

	primaryTokenVariableNameConstant  = "REPOFORGE_GITHUB_TOKEN"
	fallbackTokenVariableNameConstant = "GITHUB_TOKEN"
	tokenMissingMessageConstant       = "no access token found: set REPOFORGE_GITHUB_TOKEN or GITHUB_TOKEN"

	commandExecutionErrorTemplateConstant  = "migration failed: %w"
	repositoryManagerCreationErrorTemplate = "unable to construct repository manager: %w"
	githubClientCreationErrorTemplate      = "unable to construct GitHub client: %w"

	migrationSummaryMessageConstant = "Repository created"
	logFieldResultRepositoryURL     = "repository_url"
	logFieldResultMarkersCreated    = "markers_created"
	logFieldResultFilesStaged       = "files_staged"
	logFieldResultRemoteReplaced    = "remote_replaced"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandExecutor bundles the git and gh execution surfaces required by the command.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// MigrationExecutor runs migrations on a background worker.
type MigrationExecutor interface {
	Run(executionContext context.Context, request Request, sink ProgressSink) <-chan RunOutcome
}

// ServiceProvider constructs a migration executor from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (MigrationExecutor, error)

// ProgressSinkProvider supplies the sink receiving pipeline step transitions.
type ProgressSinkProvider func() ProgressSink

// CommandEventObserverProvider supplies an observer for shell command lifecycle events.
type CommandEventObserverProvider func(logger *zap.Logger) execshell.CommandEventObserver

// CommandBuilder assembles the create Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     CommandExecutor
	ServiceProvider              ServiceProvider
	ProgressSinkProvider         ProgressSinkProvider
	CommandEventObserverProvider CommandEventObserverProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	TokenLookup                  func() string
}

type commandOptions struct {
	debugLoggingEnabled bool
	request             Request
}

// Build constructs the create command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runCreate,
	}

	command.Flags().String(sourceFlagNameConstant, "", sourceFlagUsageConstant)
	command.Flags().String(nameFlagNameConstant, "", nameFlagUsageConstant)
	command.Flags().String(visibilityFlagNameConstant, "", visibilityFlagUsageConstant)
	command.Flags().String(descriptionFlagNameConstant, "", descriptionFlagUsageConstant)
	command.Flags().String(messageFlagNameConstant, "", messageFlagUsageConstant)
	command.Flags().String(branchFlagNameConstant, "", branchFlagUsageConstant)
	command.Flags().String(remoteFlagNameConstant, "", remoteFlagUsageConstant)
	command.Flags().Bool(freshFlagNameConstant, false, freshFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runCreate(command *cobra.Command, _ []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger(options.debugLoggingEnabled)

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	if managerError != nil {
		return fmt.Errorf(repositoryManagerCreationErrorTemplate, managerError)
	}

	githubClient, githubClientError := githubcli.NewClient(executor)
	if githubClientError != nil {
		return fmt.Errorf(githubClientCreationErrorTemplate, githubClientError)
	}

	service, serviceError := builder.resolveService(ServiceDependencies{
		Logger:            logger,
		RepositoryManager: repositoryManager,
		Provisioner:       githubClient,
		Normalizer:        normalize.NewDirectoryNormalizer(),
	})
	if serviceError != nil {
		return serviceError
	}

	var sink ProgressSink
	if builder.ProgressSinkProvider != nil {
		sink = builder.ProgressSinkProvider()
	}
	if finishingSink, supportsFinish := sink.(interface{ Finish() }); supportsFinish {
		defer finishingSink.Finish()
	}

	outcome := <-service.Run(command.Context(), options.request, sink)
	if outcome.Err != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, outcome.Err)
	}

	builder.logSummary(logger, outcome.Result)
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	debugEnabled := false
	if command != nil {
		contextAccessor := utils.NewCommandContextAccessor()
		if logLevel, available := contextAccessor.LogLevel(command.Context()); available {
			debugEnabled = logLevel == utils.LogLevelDebug
		}
	}

	sourcePath := resolveStringOption(command, sourceFlagNameConstant, configuration.SourcePath)
	repositoryName := resolveStringOption(command, nameFlagNameConstant, configuration.RepositoryName)
	visibility := resolveStringOption(command, visibilityFlagNameConstant, configuration.Visibility)
	description := resolveStringOption(command, descriptionFlagNameConstant, configuration.Description)
	commitMessage := resolveStringOption(command, messageFlagNameConstant, configuration.CommitMessage)
	branchName := resolveStringOption(command, branchFlagNameConstant, configuration.BranchName)
	remoteName := resolveStringOption(command, remoteFlagNameConstant, configuration.RemoteName)

	requireFresh := configuration.RequireFreshRepository
	if command != nil && command.Flags().Changed(freshFlagNameConstant) {
		flagValue, _ := command.Flags().GetBool(freshFlagNameConstant)
		requireFresh = flagValue
	}

	token := builder.resolveToken()
	if len(token) == 0 {
		return commandOptions{}, ValidationError{Field: tokenFieldNameConstant, Message: tokenMissingMessageConstant}
	}

	request := Request{
		SourcePath:             sourcePath,
		RepositoryName:         repositoryName,
		Visibility:             RepositoryVisibility(visibility),
		Description:            description,
		CommitMessage:          commitMessage,
		BranchName:             branchName,
		RemoteName:             remoteName,
		Token:                  token,
		RequireFreshRepository: requireFresh,
	}

	return commandOptions{debugLoggingEnabled: debugEnabled, request: request}, nil
}

func resolveStringOption(command *cobra.Command, flagName string, configuredValue string) string {
	resolvedValue := strings.TrimSpace(configuredValue)
	if command != nil && command.Flags().Changed(flagName) {
		flagValue, _ := command.Flags().GetString(flagName)
		resolvedValue = strings.TrimSpace(flagValue)
	}
	return resolvedValue
}

func (builder *CommandBuilder) resolveToken() string {
	if builder.TokenLookup != nil {
		return strings.TrimSpace(builder.TokenLookup())
	}

	if token := strings.TrimSpace(os.Getenv(primaryTokenVariableNameConstant)); len(token) > 0 {
		return token
	}
	return strings.TrimSpace(os.Getenv(fallbackTokenVariableNameConstant))
}

func (builder *CommandBuilder) resolveLogger(enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug && !logger.Core().Enabled(zapcore.DebugLevel) {
		logFormat := utils.LogFormatStructured
		if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
			logFormat = utils.LogFormatConsole
		}
		if debugLogger, creationError := utils.NewLoggerFactory().CreateLogger(utils.LogLevelDebug, logFormat); creationError == nil {
			logger = debugLogger
		}
	}
	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	if builder.CommandEventObserverProvider != nil {
		shellExecutor.SetCommandEventObserver(builder.CommandEventObserverProvider(logger))
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (MigrationExecutor, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}
	return NewService(dependencies)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}

	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}

func (builder *CommandBuilder) logSummary(logger *zap.Logger, result Result) {
	if logger == nil {
		return
	}

	remoteReplaced := false
	for _, stepResult := range result.Steps {
		if stepResult.Name == StepConfigureRemote {
			remoteReplaced = stepResult.Metrics.RemoteReplaced
		}
	}

	logger.Info(
		migrationSummaryMessageConstant,
		zap.String(logFieldResultRepositoryURL, result.RepositoryURL),
		zap.Int(logFieldResultMarkersCreated, result.MarkersCreated),
		zap.Int(logFieldResultFilesStaged, result.FilesStaged),
		zap.Bool(logFieldResultRemoteReplaced, remoteReplaced),
	)
}
