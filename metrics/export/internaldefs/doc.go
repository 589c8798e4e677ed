// Package internaldefs holds the counter families, help strings, and bucket
// boundaries shared by the Prometheus and OTel exporters, so both expose
// the same series under their own naming conventions.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
