package migration

import (
	"errors"
	"fmt"
)

const (
	validationErrorTemplateConstant     = "invalid %s: %s"
	fileSystemErrorTemplateConstant     = "filesystem failure at %s: %s"
	migrationInFlightMessageConstant    = "migration already in flight for source path"
	stepFailureErrorTemplateConstant    = "step %s failed: %s"
	provisioningFailureTemplateConstant = "remote provisioning failed: %s"
)

// ErrMigrationInFlight indicates another run already holds the source path lock.
var ErrMigrationInFlight = errors.New(migrationInFlightMessageConstant)

// ValidationError reports a request rejected before any side effect.
type ValidationError struct {
	Field   string
	Message string
}

// Error describes the invalid field.
func (validationError ValidationError) Error() string {
	return fmt.Sprintf(validationErrorTemplateConstant, validationError.Field, validationError.Message)
}

// FileSystemError reports an unreadable or unwritable path.
type FileSystemError struct {
	Path  string
	Cause error
}

// Error describes the filesystem failure.
func (fileSystemError FileSystemError) Error() string {
	return fmt.Sprintf(fileSystemErrorTemplateConstant, fileSystemError.Path, fileSystemError.Cause)
}

// Unwrap exposes the underlying cause.
func (fileSystemError FileSystemError) Unwrap() error {
	return fileSystemError.Cause
}

// StepFailureError wraps the error that halted the pipeline with its step name.
type StepFailureError struct {
	Step  StepName
	Cause error
}

// Error describes the failing step.
func (stepFailure StepFailureError) Error() string {
	return fmt.Sprintf(stepFailureErrorTemplateConstant, stepFailure.Step, stepFailure.Cause)
}

// Unwrap exposes the step's underlying error.
func (stepFailure StepFailureError) Unwrap() error {
	return stepFailure.Cause
}

// ProvisioningFailureError wraps an error raised while provisioning the remote
// repository, before any remote-configuring pipeline step has run.
type ProvisioningFailureError struct {
	Cause error
}

// Error describes the provisioning failure.
func (provisioningFailure ProvisioningFailureError) Error() string {
	return fmt.Sprintf(provisioningFailureTemplateConstant, provisioningFailure.Cause)
}

// Unwrap exposes the underlying provisioning error.
func (provisioningFailure ProvisioningFailureError) Unwrap() error {
	return provisioningFailure.Cause
}
