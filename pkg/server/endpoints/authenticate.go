package endpoints

import (
	"net/http"

	"github.com/envspace/envspace/pkg/audit"
	"github.com/envspace/envspace/pkg/hasher"
	"github.com/envspace/envspace/pkg/server"
	"github.com/envspace/envspace/pkg/server/middleware"
	"github.com/envspace/envspace/pkg/store"
)

// AuthenticateRequest is the login payload
type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticateResponse carries the session token issued on success
type AuthenticateResponse struct {
	Token string `json:"token"`
}

// RegisterAuthenticateEndpoint registers the login endpoint. It is the only
// route that does not require a session token.
func RegisterAuthenticateEndpoint(s *server.Server) {
	s.Router.HandleFunc("/authenticate", handleAuthenticate(s.Users, s.Sessions)).Methods("POST")
}

func handleAuthenticate(users *store.Users, sessions *middleware.Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AuthenticateRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := users.FindByEmail(req.Email)
		if err != nil {
			respondWithStoreError(w, err)
			return
		}
		// Same response for unknown account and wrong password.
		if user == nil || !hasher.Verify(req.Password, user.Data.Password) {
			audit.Log(audit.AuthenticateEvent{Email: req.Email, ClientIP: clientIP(r)})
			respondWithError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := sessions.Issue(user.Data.Email)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		audit.Log(audit.AuthenticateEvent{Email: user.Data.Email, ClientIP: clientIP(r), Success: true})
		respondWithJSON(w, http.StatusOK, AuthenticateResponse{Token: token})
	}
}
