// Package log defines the logging interface and typed logging fields used
// across lib-sharedref.
//
// The library never logs on its own hot paths; adapters (such as the zap
// package) implement Logger so scope teardown, allocator failures, and leak
// reports can be routed into the host application's logging backend.
package log
