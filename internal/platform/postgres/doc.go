// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in the internal/store package, along with the embedded
// goose migrations that create its schema.
package postgres
