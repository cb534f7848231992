// Package store defines the persistence contract for memos and the errors
// every implementation reports, keeping storage details out of the API layer.
package store
