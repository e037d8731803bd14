// Package errors provides the classified error primitives used across kexdocs.
//
// A ClassifiedError carries a category (config, filesystem, generator, ...), a severity
// and free-form context. Errors are built through a fluent builder:
//
//	err := errors.FileSystemError("read declaration").
//		WithCause(ioErr).
//		WithContext("path", path).
//		Build()
//
// The CLI adapter turns a classified error into a user-facing message and an exit code.
package errors
