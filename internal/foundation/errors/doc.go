// Package errors provides the classified error primitives used across sitebuilder.
//
// A ClassifiedError carries a category (config, validation, filesystem, build, ...)
// and a severity next to the usual message and cause. The CLI adapter turns the
// category into a process exit code so a failed build can be told apart from a
// bad configuration file by scripts wrapping the tool.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write page").
//		WithContext("path", outPath).
//		Build()
package errors
