package migration

import "strings"

const (
	configurationDefaultVisibilityConstant    = "private"
	configurationDefaultBranchNameConstant    = "main"
	configurationDefaultRemoteNameConstant    = "origin"
	configurationDefaultCommitMessageConstant = "Initial commit"
	configurationVisibilityKeyConstant        = "visibility"
	configurationCommitMessageKeyConstant     = "commit_message"
	configurationBranchKeyConstant            = "branch"
	configurationRemoteKeyConstant            = "remote"
	configurationRequireFreshKeyConstant      = "require_fresh"
)

// CommandConfiguration captures persisted configuration for the create command.
//
// The access token is intentionally absent: credentials are supplied through
// the environment at invocation time and are never written to configuration.
type CommandConfiguration struct {
	SourcePath             string `mapstructure:"source"`
	RepositoryName         string `mapstructure:"name"`
	Visibility             string `mapstructure:"visibility"`
	Description            string `mapstructure:"description"`
	CommitMessage          string `mapstructure:"commit_message"`
	BranchName             string `mapstructure:"branch"`
	RemoteName             string `mapstructure:"remote"`
	RequireFreshRepository bool   `mapstructure:"require_fresh"`
}

// DefaultCommandConfiguration returns baseline configuration values for the create command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Visibility:    configurationDefaultVisibilityConstant,
		CommitMessage: configurationDefaultCommitMessageConstant,
		BranchName:    configurationDefaultBranchNameConstant,
		RemoteName:    configurationDefaultRemoteNameConstant,
	}
}

// DefaultConfigurationValues exposes baseline values keyed beneath the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationVisibilityKeyConstant:    defaults.Visibility,
		rootKey + "." + configurationCommitMessageKeyConstant: defaults.CommitMessage,
		rootKey + "." + configurationBranchKeyConstant:        defaults.BranchName,
		rootKey + "." + configurationRemoteKeyConstant:        defaults.RemoteName,
		rootKey + "." + configurationRequireFreshKeyConstant:  defaults.RequireFreshRepository,
	}
}

// Sanitize trims configured values and restores defaults for cleared fields.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.SourcePath = strings.TrimSpace(configuration.SourcePath)
	sanitized.RepositoryName = strings.TrimSpace(configuration.RepositoryName)
	sanitized.Visibility = strings.TrimSpace(configuration.Visibility)
	sanitized.Description = strings.TrimSpace(configuration.Description)
	sanitized.CommitMessage = strings.TrimSpace(configuration.CommitMessage)
	sanitized.BranchName = strings.TrimSpace(configuration.BranchName)
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)

	if len(sanitized.Visibility) == 0 {
		sanitized.Visibility = configurationDefaultVisibilityConstant
	}
	if len(sanitized.CommitMessage) == 0 {
		sanitized.CommitMessage = configurationDefaultCommitMessageConstant
	}
	if len(sanitized.BranchName) == 0 {
		sanitized.BranchName = configurationDefaultBranchNameConstant
	}
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = configurationDefaultRemoteNameConstant
	}

	return sanitized
}
