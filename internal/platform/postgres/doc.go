// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver. It also owns the schema migrations,
// which are embedded in the binary and applied with goose.
package postgres
