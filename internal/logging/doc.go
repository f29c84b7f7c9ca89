// Package logging provides a simple leveled logger for the gallery tools.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (enumeration errors, cache hits)
//   - INFO: General operational messages
//   - WARN: Warning conditions (thumbnail fallbacks, retries exhausted)
//   - ERROR: Error conditions (libvips errors)
//
// The initial level comes from the DEBUG or LOG_LEVEL environment variables
// and may be overridden at runtime with SetLevel (the CLI --verbose flag).
// Output goes to stderr so it never mixes with command output on stdout.
package logging
