// Package quantity parses Kubernetes resource quantity strings into
// canonical integer units: millicores for CPU and bytes for memory.
//
// The parsers are deliberately lenient: an unparseable string maps to zero
// so a single malformed cluster object never aborts a whole audit run.
// Callers that need to distinguish a genuine zero from an unparsed value
// should inspect the boolean returned alongside the parsed value.
package quantity
