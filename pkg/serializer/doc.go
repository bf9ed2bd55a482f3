// Package serializer renders audit reports in three formats:
//
//   - JSON: machine-readable structured output with indentation
//   - YAML: human-readable structured output
//   - Table: flattened key/value rows with locale-aware numbers
//
// Writers target stdout or a file; readers load JSON or YAML documents
// back into typed values. Table output is write-only.
package serializer

import "context"

// Serializer writes one report value in a configured format.
type Serializer interface {
	Serialize(ctx context.Context, report any) error
}

// Closer is implemented by serializers holding file handles.
type Closer interface {
	Close() error
}
