// Package memory provides an in-process store.MemoStore. It backs the server
// when no database is configured and serves as a fast fake in tests.
package memory
