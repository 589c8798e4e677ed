// Package httpapi exposes the engine and the task service over HTTP with a
// chi router.
//
// Authentication endpoints answer {"done": bool} and never say why a request
// failed. Task endpoints sit behind middleware.RequireUser and are scoped to
// the resolved user.
package httpapi
