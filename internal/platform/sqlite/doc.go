// Package sqlite provides SQLite implementations of the storage interfaces
// defined in the internal/store package. It uses the pure-Go modernc.org/sqlite
// driver through sqlx, so no cgo toolchain is needed.
package sqlite
