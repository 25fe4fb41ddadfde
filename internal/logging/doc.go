// Package logging provides leveled logging on top of the standard log
// package. The level is taken from the DEBUG and LOG_LEVEL environment
// variables at startup and can be overridden with SetLevel.
package logging
