// Package errors provides foundational, type-safe error primitives used across docsite.
//
// A ClassifiedError carries a category, a severity, a retry hint, and a small
// context map. The category drives the exit code chosen by the CLI adapter;
// the wrapped cause stays reachable through errors.Is and errors.As so callers
// can still test for fs.ErrNotExist and friends.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "copy artifact").
//		WithContext("path", dst).
//		Build()
package errors
