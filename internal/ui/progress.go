package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"

	"github.com/temirov/repoforge/internal/migration"
)

const (
	progressBarTemplateConstant       = `{{string . "step" | printf "%-22s"}} {{bar . }} {{counters . }}{{string . "detail"}}`
	progressStepElementNameConstant   = "step"
	progressDetailElementNameConstant = "detail"
	stageDetailTemplateConstant       = " %d files, %s"
	markerDetailTemplateConstant      = " %d markers"
	failedStepLabelTemplateConstant   = "%s failed"
)

// MigrationProgressReporter renders pipeline step transitions as a console
// progress bar. It implements migration.ProgressSink and is safe for use from
// the worker goroutine driving the pipeline.
type MigrationProgressReporter struct {
	mutex   sync.Mutex
	bar     *pb.ProgressBar
	started bool
}

// NewMigrationProgressReporter constructs a reporter writing to the provided writer.
func NewMigrationProgressReporter(writer io.Writer) *MigrationProgressReporter {
	bar := pb.New(len(migration.PipelineStepNames()))
	bar.SetTemplateString(progressBarTemplateConstant)
	if writer != nil {
		bar.SetWriter(writer)
	}
	return &MigrationProgressReporter{bar: bar}
}

// StepTransition advances the bar on every pipeline step transition.
func (reporter *MigrationProgressReporter) StepTransition(step migration.StepResult) {
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()

	if !reporter.started {
		reporter.bar.Start()
		reporter.started = true
	}

	switch step.State {
	case migration.StepStateRunning:
		reporter.bar.Set(progressStepElementNameConstant, string(step.Name))
	case migration.StepStateSucceeded:
		reporter.bar.Set(progressDetailElementNameConstant, describeStepDetail(step))
		reporter.bar.Increment()
		if step.Name == migration.StepPush {
			reporter.bar.Finish()
		}
	case migration.StepStateFailed:
		reporter.bar.Set(progressStepElementNameConstant, fmt.Sprintf(failedStepLabelTemplateConstant, step.Name))
		reporter.bar.Finish()
	}
}

// Finish stops the bar rendering. Safe to call after a halted run.
func (reporter *MigrationProgressReporter) Finish() {
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()

	if reporter.started {
		reporter.bar.Finish()
	}
}

func describeStepDetail(step migration.StepResult) string {
	switch step.Name {
	case migration.StepNormalize:
		return fmt.Sprintf(markerDetailTemplateConstant, step.Metrics.MarkersCreated)
	case migration.StepStage:
		return fmt.Sprintf(stageDetailTemplateConstant, step.Metrics.FilesStaged, humanize.Bytes(uint64(step.Metrics.BytesStaged)))
	default:
		return ""
	}
}
