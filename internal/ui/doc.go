// Package ui renders command lifecycle events and migration progress for the
// interactive console experience.
//
// It adapts execshell command events into human-readable log lines and
// exposes a progress-bar sink that surfaces pipeline step transitions without
// blocking the worker driving the migration.
package ui
