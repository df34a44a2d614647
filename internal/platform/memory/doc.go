// Package memory provides in-process implementations of the storage
// interfaces defined in the internal/store package. State lives for the
// lifetime of the process; it is the default backend for local use and tests.
package memory
