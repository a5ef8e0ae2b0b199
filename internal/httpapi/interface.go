// Package httpapi exposes the pipeline over HTTP/JSON with a WebSocket
// state feed.
package httpapi

import "net/http"

// API serves the pipeline routes.
type API interface {
	// Register adds every route to mux.
	Register(mux *http.ServeMux)
	// Handler returns a mux with every route behind the observability
	// middleware.
	Handler() http.Handler
}
