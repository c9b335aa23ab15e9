package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/envspace/envspace/pkg/audit"
	"github.com/envspace/envspace/pkg/hasher"
	"github.com/envspace/envspace/pkg/model"
	"github.com/envspace/envspace/pkg/server"
	"github.com/envspace/envspace/pkg/store"
)

// UserResponse represents a user aggregate in the API response. The stored
// digest is never returned.
type UserResponse struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// CreateUserRequest is the account creation payload. The password arrives
// in plaintext and is hashed here, before the repository is called; the
// data layer only ever sees digests.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUsersEndpoints registers the users API endpoints
func RegisterUsersEndpoints(s *server.Server) {
	users := s.Users
	roles := s.Roles

	router := s.Router.PathPrefix("/users").Subrouter()
	router.Use(s.Sessions.Middleware)

	router.HandleFunc("", handleCreateUser(users)).Methods("POST")
	router.HandleFunc("/{email}", handleGetUser(users)).Methods("GET")
	router.HandleFunc("/{email}", handleUpdateUser(users)).Methods("PATCH")
	router.HandleFunc("/{email}", handleDeleteUser(users)).Methods("DELETE")
	router.HandleFunc("/{email}/roles", handleUserAddRole(users, roles)).Methods("POST")
	router.HandleFunc("/{email}/roles/{role}", handleUserRemoveRole(users, roles)).Methods("DELETE")
}

func userResponse(user *store.User) UserResponse {
	resp := UserResponse{Email: user.Data.Email, Roles: make([]string, 0, len(user.Data.Roles))}
	for _, ro := range user.Data.Roles {
		resp.Roles = append(resp.Roles, ro.Name)
	}
	return resp
}

func loadUser(users *store.Users, w http.ResponseWriter, r *http.Request) (*store.User, bool) {
	email := mux.Vars(r)["email"]
	user, err := users.FindByEmail(email)
	if err != nil {
		respondWithStoreError(w, err)
		return nil, false
	}
	if user == nil {
		respondWithError(w, http.StatusNotFound, "user not found")
		return nil, false
	}
	return user, true
}

func handleGetUser(users *store.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := loadUser(users, w, r)
		if !ok {
			return
		}
		respondWithJSON(w, http.StatusOK, userResponse(user))
	}
}

func handleCreateUser(users *store.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Email == "" || req.Password == "" {
			respondWithError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := users.Create(model.User{
			Email:    req.Email,
			Password: hasher.Digest(req.Password),
		})
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.AccountEvent{Actor: actor(r), ClientIP: clientIP(r), Email: user.Data.Email, Action: "create"})
		respondWithJSON(w, http.StatusCreated, userResponse(user))
	}
}

func handleUpdateUser(users *store.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    *string `json:"email"`
			Password *string `json:"password"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		user, ok := loadUser(users, w, r)
		if !ok {
			return
		}

		fields := map[string]interface{}{}
		if req.Email != nil {
			fields["email"] = *req.Email
		}
		if req.Password != nil {
			fields["password"] = hasher.Digest(*req.Password)
		}
		if err := user.Update(fields); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.AccountEvent{Actor: actor(r), ClientIP: clientIP(r), Email: user.Data.Email, Action: "update"})
		respondWithJSON(w, http.StatusOK, userResponse(user))
	}
}

func handleDeleteUser(users *store.Users) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := loadUser(users, w, r)
		if !ok {
			return
		}
		if err := user.Delete(); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.AccountEvent{Actor: actor(r), ClientIP: clientIP(r), Email: user.Data.Email, Action: "delete"})
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleUserAddRole(users *store.Users, roles *store.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		user, ok := loadUser(users, w, r)
		if !ok {
			return
		}
		role, err := roles.FindByName(req.Name)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if role == nil {
			respondWithError(w, http.StatusNotFound, "role not found")
			return
		}

		if err := user.AddRole(role); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.MembershipEvent{Actor: actor(r), ClientIP: clientIP(r), Role: role.Data.Name, Email: user.Data.Email, Added: true})
		respondWithJSON(w, http.StatusCreated, userResponse(user))
	}
}

func handleUserRemoveRole(users *store.Users, roles *store.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := loadUser(users, w, r)
		if !ok {
			return
		}
		role, err := roles.FindByName(mux.Vars(r)["role"])
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		if role == nil {
			respondWithError(w, http.StatusNotFound, "role not found")
			return
		}

		if err := user.RemoveRole(role); err != nil {
			respondWithStoreError(w, err)
			return
		}
		audit.Log(audit.MembershipEvent{Actor: actor(r), ClientIP: clientIP(r), Role: role.Data.Name, Email: user.Data.Email})
		respondWithJSON(w, http.StatusOK, userResponse(user))
	}
}
