// Package domain contains the business entities served through the JSON:API
// surface, independent of storage and transport.
package domain
