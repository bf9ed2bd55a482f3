// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeDataFetch,
//	    "failed to list pods",
//	    listErr,
//	    map[string]interface{}{
//	        "namespace": "all",
//	        "page":      3,
//	    },
//	)
package errors
