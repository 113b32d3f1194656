package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	internalTestCreateCommandNameConstant = "create"
	internalTestDebugLevelConstant        = "debug"
	internalTestStructuredFormatConstant  = "structured"
)

func TestNewApplicationRegistersCreateCommand(testInstance *testing.T) {
	application := NewApplication()

	commandNames := make([]string, 0, len(application.rootCommand.Commands()))
	for _, registeredCommand := range application.rootCommand.Commands() {
		commandNames = append(commandNames, registeredCommand.Name())
	}

	require.Contains(testInstance, commandNames, internalTestCreateCommandNameConstant)
}

func TestInitializeConfigurationAppliesEmbeddedDefaults(testInstance *testing.T) {
	application := NewApplication()

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(testInstance, initializationError)

	require.Equal(testInstance, "info", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "console", application.configuration.Common.LogFormat)
	require.Equal(testInstance, "private", application.configuration.Tools.Create.Visibility)
	require.Equal(testInstance, "main", application.configuration.Tools.Create.BranchName)
	require.Equal(testInstance, "origin", application.configuration.Tools.Create.RemoteName)
	require.Equal(testInstance, "Initial commit", application.configuration.Tools.Create.CommitMessage)
	require.False(testInstance, application.configuration.Tools.Create.RequireFreshRepository)
}

func TestInitializeConfigurationHonorsPersistentFlagOverrides(testInstance *testing.T) {
	application := NewApplication()

	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, internalTestDebugLevelConstant))
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, internalTestStructuredFormatConstant))

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(testInstance, initializationError)

	require.Equal(testInstance, internalTestDebugLevelConstant, application.configuration.Common.LogLevel)
	require.Equal(testInstance, internalTestStructuredFormatConstant, application.configuration.Common.LogFormat)
	require.False(testInstance, application.humanReadableLoggingEnabled())
	require.Nil(testInstance, application.progressSink())
}

func TestHumanReadableLoggingEnabledForConsoleFormat(testInstance *testing.T) {
	application := NewApplication()

	initializationError := application.initializeConfiguration(application.rootCommand)
	require.NoError(testInstance, initializationError)

	require.True(testInstance, application.humanReadableLoggingEnabled())
	require.NotNil(testInstance, application.progressSink())
}
