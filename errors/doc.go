// Package errors provides the structured error type shared by asreval
// packages: machine-readable codes, retryable detection and code-based
// matching with errors.Is.
package errors
