package endpoints

import (
	"github.com/envspace/envspace/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAuthenticateEndpoint(srv)
	RegisterSpacesEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterRolesEndpoints(srv)
}
