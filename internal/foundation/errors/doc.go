// Package errors provides foundational, type-safe error primitives used across blogbuilder.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context
// and the Result value returned at the build pipeline boundary.
//
// Key features:
//   - ErrorCategory: Broad error classification (usage, io, config, unknown)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - Result: success marker or (kind, message) failure pair
//   - CLI adapter for exit codes and single-line error presentation
//
// Example usage:
//
//	err := errors.IOError("write page failed").
//		WithContext("path", target).
//		WithCause(originalErr).
//		Build()
package errors
