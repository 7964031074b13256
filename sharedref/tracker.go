package sharedref

import "sync"

// Tracker observes group lifetimes. The track subpackage provides a registry
// implementation with leak reporting and OpenTelemetry metrics; this package
// only defines the seam so the core carries no tracking dependencies.
//
// Tracker implementations must be safe for concurrent use: groups themselves
// are single-goroutine, but many goroutines may construct and finalize
// independent groups at once.
type Tracker interface {
	// TrackConstruct records a new group holding a payload of the given type
	// and returns an opaque id for the group. An empty id disables further
	// callbacks for that group.
	TrackConstruct(payloadType string) string

	// TrackFinalize records that the group with the given id has been torn
	// down.
	TrackFinalize(id string)
}

var (
	trackerInstance Tracker
	trackerMu       sync.RWMutex
)

// SetTracker installs the process-wide lifetime tracker. This should be
// called once during startup, before groups are constructed. Passing nil is
// a no-op; use ResetTracker to uninstall.
func SetTracker(tracker Tracker) {
	trackerMu.Lock()
	defer trackerMu.Unlock()

	if tracker == nil {
		return
	}

	trackerInstance = tracker
}

// CurrentTracker returns the installed tracker, or nil if none is installed.
func CurrentTracker() Tracker {
	trackerMu.RLock()
	defer trackerMu.RUnlock()

	return trackerInstance
}

// ResetTracker uninstalls the tracker (useful for tests).
func ResetTracker() {
	trackerMu.Lock()
	defer trackerMu.Unlock()

	trackerInstance = nil
}
