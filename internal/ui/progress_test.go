package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoforge/internal/migration"
	"github.com/temirov/repoforge/internal/ui"
)

func TestMigrationProgressReporterRendersStepTransitions(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := ui.NewMigrationProgressReporter(outputBuffer)

	for _, stepName := range migration.PipelineStepNames() {
		reporter.StepTransition(migration.StepResult{Name: stepName, State: migration.StepStateRunning})
		stepResult := migration.StepResult{Name: stepName, State: migration.StepStateSucceeded}
		if stepName == migration.StepNormalize {
			stepResult.Metrics.MarkersCreated = 3
		}
		if stepName == migration.StepStage {
			stepResult.Metrics.FilesStaged = 12
			stepResult.Metrics.BytesStaged = 2048
		}
		reporter.StepTransition(stepResult)
	}
	reporter.Finish()

	renderedOutput := outputBuffer.String()
	require.NotEmpty(testInstance, renderedOutput)
	require.Contains(testInstance, renderedOutput, string(migration.StepPush))
}

func TestMigrationProgressReporterRendersFailedStep(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := ui.NewMigrationProgressReporter(outputBuffer)

	reporter.StepTransition(migration.StepResult{Name: migration.StepInitialize, State: migration.StepStateRunning})
	reporter.StepTransition(migration.StepResult{Name: migration.StepInitialize, State: migration.StepStateFailed})
	reporter.Finish()

	renderedOutput := outputBuffer.String()
	require.NotEmpty(testInstance, renderedOutput)
	require.Contains(testInstance, renderedOutput, "failed")
}
