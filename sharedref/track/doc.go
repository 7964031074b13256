// Package track accounts for live sharedref groups.
//
// A Registry implements sharedref.Tracker: each constructed group gets a
// stable id, lives in the registry until its last handle is released, and
// shows up in Snapshot and Report until then. Report logs every group that
// is still alive, which turns "did everything get released" from a guess
// into a test assertion.
//
// Metrics publishes the same accounting as OpenTelemetry instruments: a
// live-group up/down counter and constructed/finalized totals. Without a
// meter provider the instruments are no-ops, so tracking costs nothing to
// leave wired in.
package track
