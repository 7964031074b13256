// Package zap provides the zap-backed implementation of the sharedref/log
// interface.
//
// It keeps structured fields intact and correlates entries with an active
// OpenTelemetry span when one is present on the context, so scope teardown
// failures and leak reports land in the host application's logs with full
// trace context.
package zap
