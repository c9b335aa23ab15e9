package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/envspace/envspace/pkg/audit"
	"github.com/envspace/envspace/pkg/server"
	"github.com/envspace/envspace/pkg/store"
)

// SpaceResponse represents a space aggregate in the API response
type SpaceResponse struct {
	Name   string          `json:"name"`
	Envs   []EnvResponse   `json:"envs"`
	Access []GrantResponse `json:"access"`
}

// EnvResponse represents one environment variable
type EnvResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GrantResponse represents one access grant
type GrantResponse struct {
	Role  string `json:"role"`
	Write bool   `json:"write"`
}

// CreateSpaceRequest is the space creation payload
type CreateSpaceRequest struct {
	Name string `json:"name"`
}

// EnvRequest is the env-var creation payload
type EnvRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GrantRequest is the grant payload
type GrantRequest struct {
	Write bool `json:"write"`
}

// RegisterSpacesEndpoints registers the spaces API endpoints
func RegisterSpacesEndpoints(s *server.Server) {
	spaces := s.Spaces

	router := s.Router.PathPrefix("/spaces").Subrouter()
	router.Use(s.Sessions.Middleware)

	router.HandleFunc("", handleCreateSpace(spaces)).Methods("POST")
	router.HandleFunc("/{name}", handleGetSpace(spaces)).Methods("GET")
	router.HandleFunc("/{name}", handleUpdateSpace(spaces)).Methods("PATCH")
	router.HandleFunc("/{name}", handleDeleteSpace(spaces)).Methods("DELETE")
	router.HandleFunc("/{name}/env", handleAddEnv(spaces)).Methods("POST")
	router.HandleFunc("/{name}/env/{key}", handleRemoveEnv(spaces)).Methods("DELETE")
	router.HandleFunc("/{name}/access/{role}", handleGrant(spaces)).Methods("PUT")
	router.HandleFunc("/{name}/access/{role}", handleRevoke(spaces)).Methods("DELETE")
}

func spaceResponse(space *store.Space) SpaceResponse {
	resp := SpaceResponse{
		Name:   space.Data.Name,
		Envs:   make([]EnvResponse, 0, len(space.Data.Envs)),
		Access: make([]GrantResponse, 0, len(space.Data.Access)),
	}
	for _, e := range space.Data.Envs {
		resp.Envs = append(resp.Envs, EnvResponse{Key: e.EnvKey, Value: e.EnvValue})
	}
	for _, a := range space.Data.Access {
		resp.Access = append(resp.Access, GrantResponse{Role: a.RoleName, Write: a.Write})
	}
	return resp
}

// loadSpace fetches the space named in the route, handling absent as 404.
// The bool reports whether the caller should continue.
func loadSpace(spaces *store.Spaces, w http.ResponseWriter, r *http.Request) (*store.Space, bool) {
	name := mux.Vars(r)["name"]
	space, err := spaces.FindByName(name)
	if err != nil {
		respondWithStoreError(w, err)
		return nil, false
	}
	if space == nil {
		respondWithError(w, http.StatusNotFound, "space not found")
		return nil, false
	}
	return space, true
}

func handleGetSpace(spaces *store.Spaces) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		space, ok := loadSpace(spaces, w, r)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, spaceResponse(space))
	}
}

func handleCreateSpace(spaces *store.Spaces) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSpaceRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "name is required")
			return
		}

		space, err := spaces.Create(req.Name)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.SpaceEvent{Actor: actor(r), ClientIP: clientIP(r), Space: space.Data.Name, Action: "create"})
		respondWithJSON(w, http.StatusCreated, spaceResponse(space))
	}
}

func handleUpdateSpace(spaces *store.Spaces) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name *string `json:"name"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		space, ok := loadSpace(spaces, w, r)
		if !ok {
			return
		}

		fields := map[string]interface{}{}
		if req.Name != nil {
			fields["name"] = *req.Name
		}
		if err := space.Update(fields); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.SpaceEvent{Actor: actor(r), ClientIP: clientIP(r), Space: space.Data.Name, Action: "update"})
		respondWithJSON(w, http.StatusOK, spaceResponse(space))
	}
}

func handleDeleteSpace(spaces *store.Spaces) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		space, ok := loadSpace(spaces, w, r)
		if !ok {
			return
		}
		if err := space.Delete(); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.SpaceEvent{Actor: actor(r), ClientIP: clientIP(r), Space: space.Data.Name, Action: "delete"})
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAddEnv(spaces *store.Spaces) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EnvRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Key == "" {
			respondWithError(w, http.StatusBadRequest, "key is required")
			return
		}

		space, ok := loadSpace(spaces, w, r)
		if !ok {
			return
		}
		if err := space.AddEnv(req.Key, req.Value); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.EnvEvent{Actor: actor(r), ClientIP: clientIP(r), Space: space.Data.Name, Key: req.Key, Action: "set"})
		respondWithJSON(w, http.StatusCreated, spaceResponse(space))
	}
}

func handleRemoveEnv(spaces *store.Spaces) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		space, ok := loadSpace(spaces, w, r)
		if !ok {
			return
		}
		key := mux.Vars(r)["key"]
		if err := space.RemoveEnv(key); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.EnvEvent{Actor: actor(r), ClientIP: clientIP(r), Space: space.Data.Name, Key: key, Action: "remove"})
		respondWithJSON(w, http.StatusOK, spaceResponse(space))
	}
}

func handleGrant(spaces *store.Spaces) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GrantRequest
		if !decodeBody(w, r, &req) {
			return
		}

		space, ok := loadSpace(spaces, w, r)
		if !ok {
			return
		}
		role := mux.Vars(r)["role"]
		if err := space.Grant(role, req.Write); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.GrantEvent{Actor: actor(r), ClientIP: clientIP(r), Space: space.Data.Name, Role: role, Write: req.Write})
		respondWithJSON(w, http.StatusCreated, spaceResponse(space))
	}
}

func handleRevoke(spaces *store.Spaces) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		space, ok := loadSpace(spaces, w, r)
		if !ok {
			return
		}
		role := mux.Vars(r)["role"]
		if err := space.Revoke(role); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.GrantEvent{Actor: actor(r), ClientIP: clientIP(r), Space: space.Data.Name, Role: role, Revoked: true})
		respondWithJSON(w, http.StatusOK, spaceResponse(space))
	}
}
