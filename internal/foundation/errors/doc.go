// Package errors provides the classified error primitives used across wikimatter.
//
// A ClassifiedError carries a category, a severity and structured context next to
// the usual message and cause, so the CLI can pick an exit code and the batch can
// decide whether a failure aborts everything or only the current document.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryOutline, "document is outside the content root").
//		WithContext("path", path).
//		WithCause(outline.ErrOutsideContentRoot).
//		Build()
package errors
