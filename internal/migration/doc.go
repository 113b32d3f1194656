// Package migration orchestrates turning a local directory tree into a
// freshly provisioned GitHub repository.
//
// The Service validates a Request, serializes concurrent runs per source
// path, provisions the remote repository, and drives the fixed pipeline of
// Git operations on a background worker while streaming step transitions to
// a ProgressSink. Credentials stay out of logs, persisted configuration, and
// error text throughout.
package migration
