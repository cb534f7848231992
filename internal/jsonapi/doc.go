// Package jsonapi exposes resources through a JSON:API-shaped HTTP interface.
//
// An Adapter wraps a resource value and dispatches each request by HTTP method
// to the capability interfaces the resource implements (Getter, Poster,
// Patcher, Deleter). Detail and List are the two stock resources: they map
// GET/PATCH/DELETE on a single item and GET/POST on a collection to a small set
// of hooks supplied by the integrator, and delegate (de)serialization and
// validation to an injected Schema.
//
// Validation never panics. A Schema reports problems as a *ValidationFailure,
// which handlers pass through Translate to obtain the single structured error
// type (*Error) that the Adapter knows how to render.
package jsonapi
