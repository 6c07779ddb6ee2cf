// Package errors provides classified errors for the insurancenews service.
//
// A ClassifiedError carries a category (config, network, not_found, ...), a
// severity and a retry hint. Adapters turn them into HTTP responses and CLI
// exit codes.
//
//	err := errors.NewError(errors.CategoryNetwork, "content API unreachable").
//		WithContext("endpoint", "/articles/abc").
//		Build()
package errors
