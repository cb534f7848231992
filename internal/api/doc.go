// Package api exposes the memo resources over JSON:API. Resources implement
// the jsonapi hooks on top of a store.MemoStore and translate store failures
// into JSON:API error documents.
package api
