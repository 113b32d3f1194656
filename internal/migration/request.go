package migration

// StepName identifies one operation in the fixed migration pipeline.
type StepName string

// Pipeline step names in execution order.
const (
	StepInitialize          StepName = "Initialize"
	StepNormalize           StepName = "Normalize"
	StepStage               StepName = "Stage"
	StepCommit              StepName = "Commit"
	StepConfigureRemote     StepName = "ConfigureRemote"
	StepRenameDefaultBranch StepName = "RenameDefaultBranch"
	StepPush                StepName = "Push"
)

// PipelineStepNames returns the pipeline steps in execution order.
func PipelineStepNames() []StepName {
	return []StepName{
		StepInitialize,
		StepNormalize,
		StepStage,
		StepCommit,
		StepConfigureRemote,
		StepRenameDefaultBranch,
		StepPush,
	}
}

// StepState describes the lifecycle of a pipeline step.
type StepState string

// Step state enumerations.
const (
	StepStatePending   StepState = "pending"
	StepStateRunning   StepState = "running"
	StepStateSucceeded StepState = "succeeded"
	StepStateFailed    StepState = "failed"
)

// StepMetrics carries measurable outcomes of individual steps.
type StepMetrics struct {
	MarkersCreated int
	FilesStaged    int
	BytesStaged    int64
	RemoteReplaced bool
}

// StepResult is a snapshot of one pipeline step published on every transition.
type StepResult struct {
	Name    StepName
	State   StepState
	Err     error
	Metrics StepMetrics
}

// RepositoryVisibility enumerates supported repository visibility settings.
type RepositoryVisibility string

// Supported visibility values.
const (
	VisibilityPrivate RepositoryVisibility = "private"
	VisibilityPublic  RepositoryVisibility = "public"
)

// Request describes one directory-to-repository migration.
//
// Token is an opaque credential consumed by provisioning and push only. It is
// never logged, never persisted, and never embedded in error text.
type Request struct {
	SourcePath             string
	RepositoryName         string
	Visibility             RepositoryVisibility
	Description            string
	CommitMessage          string
	BranchName             string
	RemoteName             string
	Token                  string
	RequireFreshRepository bool
}

// Result summarizes a completed or halted migration run.
type Result struct {
	Steps           []StepResult
	RepositoryURL   string
	MarkersCreated  int
	FilesStaged     int
	UnreadablePaths []string
}

// ProgressSink receives ordered pipeline step transitions.
//
// Delivery happens on the worker goroutine driving the pipeline; sink
// implementations must hand events back to their own thread without blocking
// the worker indefinitely.
type ProgressSink interface {
	StepTransition(step StepResult)
}

// ChannelProgressSink forwards step transitions over a bounded channel.
type ChannelProgressSink struct {
	events chan StepResult
}

// NewChannelProgressSink constructs a sink with the provided buffer capacity.
func NewChannelProgressSink(bufferCapacity int) *ChannelProgressSink {
	if bufferCapacity < 0 {
		bufferCapacity = 0
	}
	return &ChannelProgressSink{events: make(chan StepResult, bufferCapacity)}
}

// StepTransition publishes the step snapshot in transition order.
func (sink *ChannelProgressSink) StepTransition(step StepResult) {
	sink.events <- step
}

// Events exposes the ordered stream of step transitions.
func (sink *ChannelProgressSink) Events() <-chan StepResult {
	return sink.events
}

// Close releases the event stream once no further transitions will arrive.
func (sink *ChannelProgressSink) Close() {
	close(sink.events)
}
