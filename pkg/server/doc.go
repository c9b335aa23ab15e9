// Package server provides the HTTP surface over the envspace data layer.
//
// The server itself is thin: endpoints translate requests into repository
// calls and map the data layer's error taxonomy onto status codes (absent
// becomes 404, constraint violations become 409). Authorization decisions
// are not made here; grants are stored and returned, never evaluated.
package server
