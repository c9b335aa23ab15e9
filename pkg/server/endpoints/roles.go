package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/envspace/envspace/pkg/audit"
	"github.com/envspace/envspace/pkg/model"
	"github.com/envspace/envspace/pkg/server"
	"github.com/envspace/envspace/pkg/store"
)

// RoleResponse represents a role aggregate in the API response
type RoleResponse struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// CreateRoleRequest is the role creation payload
type CreateRoleRequest struct {
	Name string `json:"name"`
}

// RegisterRolesEndpoints registers the roles API endpoints
func RegisterRolesEndpoints(s *server.Server) {
	roles := s.Roles
	users := s.Users

	router := s.Router.PathPrefix("/roles").Subrouter()
	router.Use(s.Sessions.Middleware)

	router.HandleFunc("", handleCreateRole(roles)).Methods("POST")
	router.HandleFunc("/{name}", handleGetRole(roles)).Methods("GET")
	router.HandleFunc("/{name}", handleUpdateRole(roles)).Methods("PATCH")
	router.HandleFunc("/{name}", handleDeleteRole(roles)).Methods("DELETE")
	router.HandleFunc("/{name}/members", handleRoleAddMember(roles, users)).Methods("POST")
	router.HandleFunc("/{name}/members/{email}", handleRoleRemoveMember(roles, users)).Methods("DELETE")
}

func roleResponse(role *store.Role) RoleResponse {
	resp := RoleResponse{Name: role.Data.Name, Members: make([]string, 0, len(role.Data.Users))}
	for _, u := range role.Data.Users {
		resp.Members = append(resp.Members, u.Email)
	}
	return resp
}

func loadRole(roles *store.Roles, w http.ResponseWriter, r *http.Request) (*store.Role, bool) {
	name := mux.Vars(r)["name"]
	role, err := roles.FindByName(name)
	if err != nil {
		respondWithStoreError(w, err)
		return nil, false
	}
	if role == nil {
		respondWithError(w, http.StatusNotFound, "role not found")
		return nil, false
	}
	return role, true
}

func handleGetRole(roles *store.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := loadRole(roles, w, r)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, roleResponse(role))
	}
}

func handleCreateRole(roles *store.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoleRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" {
			respondWithError(w, http.StatusBadRequest, "name is required")
			return
		}

		role, err := roles.Create(model.Role{Name: req.Name})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.RoleEvent{Actor: actor(r), ClientIP: clientIP(r), Role: role.Data.Name, Action: "create"})
		respondWithJSON(w, http.StatusCreated, roleResponse(role))
	}
}

func handleUpdateRole(roles *store.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name *string `json:"name"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		role, ok := loadRole(roles, w, r)
		if !ok {
			return
		}

		fields := map[string]interface{}{}
		if req.Name != nil {
			fields["name"] = *req.Name
		}
		if err := role.Update(fields); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.RoleEvent{Actor: actor(r), ClientIP: clientIP(r), Role: role.Data.Name, Action: "update"})
		respondWithJSON(w, http.StatusOK, roleResponse(role))
	}
}

func handleDeleteRole(roles *store.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := loadRole(roles, w, r)
		if !ok {
			return
		}
		if err := role.Delete(); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.RoleEvent{Actor: actor(r), ClientIP: clientIP(r), Role: role.Data.Name, Action: "delete"})
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRoleAddMember(roles *store.Roles, users *store.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		role, ok := loadRole(roles, w, r)
		if !ok {
			return
		}
		user, err := users.FindByEmail(req.Email)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if user == nil {
			respondWithError(w, http.StatusNotFound, "user not found")
			return
		}

		if err := role.AddUser(user); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.MembershipEvent{Actor: actor(r), ClientIP: clientIP(r), Role: role.Data.Name, Email: user.Data.Email, Added: true})
		respondWithJSON(w, http.StatusCreated, roleResponse(role))
	}
}

func handleRoleRemoveMember(roles *store.Roles, users *store.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, ok := loadRole(roles, w, r)
		if !ok {
			return
		}
		user, err := users.FindByEmail(mux.Vars(r)["email"])
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if user == nil {
			respondWithError(w, http.StatusNotFound, "user not found")
			return
		}

		if err := role.RemoveUser(user); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.MembershipEvent{Actor: actor(r), ClientIP: clientIP(r), Role: role.Data.Name, Email: user.Data.Email})
		respondWithJSON(w, http.StatusOK, roleResponse(role))
	}
}
