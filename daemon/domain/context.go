package domain

import "github.com/cskr/pubsub"

// SnapshotTopic is the pubsub topic the Collection Scheduler publishes each
// freshly appended Snapshot on, and the websocket surface subscribes to.
const SnapshotTopic = "snapshot"

// Context carries the daemon's configuration and its internal event bus
// through kong's command dispatch, the same shape the teacher threads
// through cmd.Boot and services.Orchestrator.
type Context struct {
	Config Config
	Hub    *pubsub.PubSub
}
