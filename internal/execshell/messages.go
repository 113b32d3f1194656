package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitInitSubcommandNameConstant   = "init"
	gitAddSubcommandNameConstant    = "add"
	gitCommitSubcommandNameConstant = "commit"
	gitRemoteSubcommandNameConstant = "remote"
	gitBranchSubcommandNameConstant = "branch"
	gitPushSubcommandNameConstant   = "push"
	gitMessageFlagConstant          = "-m"
)

const (
	gitInitStartTemplateConstant               = "Initializing repository in %s"
	gitInitSuccessTemplateConstant             = "Initialized repository in %s"
	gitInitFailureTemplateConstant             = "Failed to initialize repository in %s (exit code %d%s)"
	gitInitExecutionFailureTemplateConstant    = "Unable to initialize repository in %s: %s"
	gitAddStartTemplateConstant                = "Staging %s in %s"
	gitAddSuccessTemplateConstant              = "Staged %s in %s"
	gitAddFailureTemplateConstant              = "Failed to stage %s in %s (exit code %d%s)"
	gitAddExecutionFailureTemplateConstant     = "Unable to stage %s in %s: %s"
	gitCommitStartTemplateConstant             = "Creating commit in %s with message %q"
	gitCommitSuccessTemplateConstant           = "Created commit in %s with message %q"
	gitCommitFailureTemplateConstant           = "Failed to create commit in %s with message %q (exit code %d%s)"
	gitCommitExecutionFailureTemplateConstant  = "Unable to create commit in %s with message %q: %s"
	gitRemoteStartTemplateConstant             = "Configuring remote %s in %s"
	gitRemoteSuccessTemplateConstant           = "Configured remote %s in %s"
	gitRemoteFailureTemplateConstant           = "Failed to configure remote %s in %s (exit code %d%s)"
	gitRemoteExecutionFailureTemplateConstant  = "Unable to configure remote %s in %s: %s"
	gitBranchStartTemplateConstant             = "Renaming current branch to %s in %s"
	gitBranchSuccessTemplateConstant           = "Renamed current branch to %s in %s"
	gitBranchFailureTemplateConstant           = "Failed to rename current branch to %s in %s (exit code %d%s)"
	gitBranchExecutionFailureTemplateConstant  = "Unable to rename current branch to %s in %s: %s"
	gitPushStartTemplateConstant               = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant             = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant             = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant    = "Unable to push %s to %s from %s: %s"
	githubAPIStartTemplateConstant             = "Calling GitHub API endpoint %s"
	githubAPISuccessTemplateConstant           = "Called GitHub API endpoint %s"
	githubAPIFailureTemplateConstant           = "GitHub API endpoint %s failed (exit code %d%s)"
	githubAPIExecutionFailureTemplateConstant  = "Unable to call GitHub API endpoint %s: %s"
	githubAPICommandNameConstant               = "api"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandGitHub:
		return formatter.describeGitHubMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	subcommand := formatter.resolveGitSubcommand(command.Details.Arguments)
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch subcommand {
	case gitInitSubcommandNameConstant:
		return formatter.renderStages(stage, result, failure,
			fmt.Sprintf(gitInitStartTemplateConstant, workingDirectory),
			fmt.Sprintf(gitInitSuccessTemplateConstant, workingDirectory),
			gitInitFailureTemplateConstant, gitInitExecutionFailureTemplateConstant,
			workingDirectory)
	case gitAddSubcommandNameConstant:
		target := formatter.ensureValue(formatter.firstArgumentAfter(command.Details.Arguments, gitAddSubcommandNameConstant))
		return formatter.renderStages(stage, result, failure,
			fmt.Sprintf(gitAddStartTemplateConstant, target, workingDirectory),
			fmt.Sprintf(gitAddSuccessTemplateConstant, target, workingDirectory),
			gitAddFailureTemplateConstant, gitAddExecutionFailureTemplateConstant,
			target, workingDirectory)
	case gitCommitSubcommandNameConstant:
		commitMessage := formatter.extractFlagValue(command.Details.Arguments, gitMessageFlagConstant)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCommitStartTemplateConstant, workingDirectory, commitMessage)
		case messageStageSuccess:
			return fmt.Sprintf(gitCommitSuccessTemplateConstant, workingDirectory, commitMessage)
		case messageStageFailure:
			return fmt.Sprintf(gitCommitFailureTemplateConstant, workingDirectory, commitMessage, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitCommitExecutionFailureTemplateConstant, workingDirectory, commitMessage, formatter.describeFailure(failure))
		}
	case gitRemoteSubcommandNameConstant:
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(command.Details.Arguments, formatter.subcommandIndex(command.Details.Arguments)+2))
		return formatter.renderStages(stage, result, failure,
			fmt.Sprintf(gitRemoteStartTemplateConstant, remoteName, workingDirectory),
			fmt.Sprintf(gitRemoteSuccessTemplateConstant, remoteName, workingDirectory),
			gitRemoteFailureTemplateConstant, gitRemoteExecutionFailureTemplateConstant,
			remoteName, workingDirectory)
	case gitBranchSubcommandNameConstant:
		branchName := formatter.ensureValue(formatter.lastNonFlagArgument(command.Details.Arguments))
		return formatter.renderStages(stage, result, failure,
			fmt.Sprintf(gitBranchStartTemplateConstant, branchName, workingDirectory),
			fmt.Sprintf(gitBranchSuccessTemplateConstant, branchName, workingDirectory),
			gitBranchFailureTemplateConstant, gitBranchExecutionFailureTemplateConstant,
			branchName, workingDirectory)
	case gitPushSubcommandNameConstant:
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(formatter.nonFlagArguments(command.Details.Arguments), 1))
		branchName := formatter.ensureValue(formatter.argumentAtIndex(formatter.nonFlagArguments(command.Details.Arguments), 2))
		return formatter.renderStages(stage, result, failure,
			fmt.Sprintf(gitPushStartTemplateConstant, branchName, remoteName, workingDirectory),
			fmt.Sprintf(gitPushSuccessTemplateConstant, branchName, remoteName, workingDirectory),
			gitPushFailureTemplateConstant, gitPushExecutionFailureTemplateConstant,
			branchName, remoteName, workingDirectory)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitHubMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 || strings.TrimSpace(arguments[0]) != githubAPICommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	endpoint := formatter.ensureValue(arguments[1])
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(githubAPIStartTemplateConstant, endpoint)
	case messageStageSuccess:
		return fmt.Sprintf(githubAPISuccessTemplateConstant, endpoint)
	case messageStageFailure:
		return fmt.Sprintf(githubAPIFailureTemplateConstant, endpoint, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(githubAPIExecutionFailureTemplateConstant, endpoint, formatter.describeFailure(failure))
	}
}

// renderStages builds failure and execution-failure messages from templates whose
// leading verbs already include the supplied labels.
func (formatter CommandMessageFormatter) renderStages(stage messageStage, result ExecutionResult, failure error, startMessage string, successMessage string, failureTemplate string, executionFailureTemplate string, labels ...any) string {
	switch stage {
	case messageStageStart:
		return startMessage
	case messageStageSuccess:
		return successMessage
	case messageStageFailure:
		failureArguments := append(append([]any{}, labels...), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(failureTemplate, failureArguments...)
	default:
		executionFailureArguments := append(append([]any{}, labels...), formatter.describeFailure(failure))
		return fmt.Sprintf(executionFailureTemplate, executionFailureArguments...)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := emptyStringConstant
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) > 0 {
		workingDirectorySuffix = fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, ScrubCredentialURLs(trimmedStandardError))
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

// resolveGitSubcommand returns the first argument that is not a configuration flag pair.
func (formatter CommandMessageFormatter) resolveGitSubcommand(arguments []string) string {
	index := formatter.subcommandIndex(arguments)
	if index < 0 {
		return emptyStringConstant
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) subcommandIndex(arguments []string) int {
	for index := 0; index < len(arguments); index++ {
		trimmed := strings.TrimSpace(arguments[index])
		if trimmed == "-c" {
			index++
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return index
	}
	return -1
}

func (formatter CommandMessageFormatter) nonFlagArguments(arguments []string) []string {
	collected := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		trimmed := strings.TrimSpace(arguments[index])
		if trimmed == "-c" {
			index++
			continue
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		collected = append(collected, trimmed)
	}
	return collected
}

func (formatter CommandMessageFormatter) firstArgumentAfter(arguments []string, subcommand string) string {
	nonFlag := formatter.nonFlagArguments(arguments)
	for index, argument := range nonFlag {
		if argument == subcommand && index+1 < len(nonFlag) {
			return nonFlag[index+1]
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	nonFlag := formatter.nonFlagArguments(arguments)
	if len(nonFlag) == 0 {
		return emptyStringConstant
	}
	return nonFlag[len(nonFlag)-1]
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) extractFlagValue(arguments []string, flag string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			return strings.TrimSpace(arguments[index+1])
		}
	}
	return fallbackUnknownValueLabelConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}
