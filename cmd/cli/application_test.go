package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/repoforge/cmd/cli"
)

type embeddedConfigurationDocument struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Tools struct {
		Create struct {
			Visibility    string `yaml:"visibility"`
			CommitMessage string `yaml:"commit_message"`
			Branch        string `yaml:"branch"`
			Remote        string `yaml:"remote"`
			RequireFresh  bool   `yaml:"require_fresh"`
		} `yaml:"create"`
	} `yaml:"tools"`
}

func TestEmbeddedDefaultConfigurationParses(testInstance *testing.T) {
	configurationContent, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)
	require.NotEmpty(testInstance, configurationContent)

	var parsedDocument embeddedConfigurationDocument
	require.NoError(testInstance, yaml.Unmarshal(configurationContent, &parsedDocument))

	require.Equal(testInstance, "info", parsedDocument.Common.LogLevel)
	require.Equal(testInstance, "console", parsedDocument.Common.LogFormat)
	require.Equal(testInstance, "private", parsedDocument.Tools.Create.Visibility)
	require.Equal(testInstance, "Initial commit", parsedDocument.Tools.Create.CommitMessage)
	require.Equal(testInstance, "main", parsedDocument.Tools.Create.Branch)
	require.Equal(testInstance, "origin", parsedDocument.Tools.Create.Remote)
	require.False(testInstance, parsedDocument.Tools.Create.RequireFresh)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstCopy, _ := cli.EmbeddedDefaultConfiguration()
	firstCopy[0] = '#'

	secondCopy, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstCopy[0], secondCopy[0])
}
