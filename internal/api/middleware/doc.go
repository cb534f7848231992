// Package middleware holds the HTTP middleware placed in front of the
// JSON:API resources.
package middleware
