// Package metrics keeps the engine's counters and the resolve latency
// histogram in memory.
//
// Each counter lives in its own cache-line-padded slot and is bumped with a
// single atomic add, so recording never allocates or takes a lock. The
// histogram has eight fixed buckets from 5ms up to +Inf.
//
// Nothing here is exported over the network: the exporters under
// metrics/export read a [Snapshot] and render it themselves. This package
// must not import taskauth or keep any global registry.
package metrics
