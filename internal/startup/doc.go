// Package startup handles application initialization: loading and
// validating configuration from environment variables, directory
// setup, external tool checks, hardware encoder detection, and the
// structured startup/shutdown log sections.
package startup
