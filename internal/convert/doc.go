// Package convert is the facade of the conversion engine. A Service
// ties together probing, encode planning, task execution, and the
// progress event bus: callers probe files, start and cancel
// conversions, query task state, and subscribe to progress without
// touching the underlying packages.
package convert
