// Package handlers implements the HTTP API of the conversion engine:
// probing, starting and cancelling conversions, task queries, output
// download and deletion, poster previews, and the WebSocket progress
// event stream.
package handlers
