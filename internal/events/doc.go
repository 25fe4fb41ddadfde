// Package events is the publish/subscribe channel between running
// conversion tasks and their callers. Subscriptions are keyed by task
// identifier; per-task delivery preserves publish order and guarantees
// the terminal event is the last one seen.
package events
