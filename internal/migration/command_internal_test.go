package migration

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestResolveLoggerUpgradesToDebugWhenRequested(testInstance *testing.T) {
	infoCore, _ := observer.New(zapcore.InfoLevel)
	builder := &CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.New(infoCore)
		},
	}

	resolvedLogger := builder.resolveLogger(true)
	require.True(testInstance, resolvedLogger.Core().Enabled(zapcore.DebugLevel))
}

func TestResolveLoggerKeepsProvidedDebugLogger(testInstance *testing.T) {
	debugCore, observedLogs := observer.New(zapcore.DebugLevel)
	builder := &CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.New(debugCore)
		},
	}

	resolvedLogger := builder.resolveLogger(true)
	resolvedLogger.Debug("diagnostics enabled")
	require.Len(testInstance, observedLogs.All(), 1)
}

func TestResolveLoggerLeavesLevelAloneWithoutDebug(testInstance *testing.T) {
	infoCore, observedLogs := observer.New(zapcore.InfoLevel)
	builder := &CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.New(infoCore)
		},
	}

	resolvedLogger := builder.resolveLogger(false)
	resolvedLogger.Debug("suppressed")
	require.Empty(testInstance, observedLogs.All())
}
