package endpoints

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/envspace/envspace/pkg/server/middleware"
	"github.com/envspace/envspace/pkg/store"
)

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithStoreError maps the data layer's error taxonomy onto status
// codes: constraint violations are conflicts, anything else is a 500.
func respondWithStoreError(w http.ResponseWriter, err error) {
	if store.IsConstraintViolation(err) {
		respondWithError(w, http.StatusConflict, "conflicts with an existing record")
		return
	}
	respondWithError(w, http.StatusInternalServerError, err.Error())
}

// actor names the authenticated user for audit records
func actor(r *http.Request) string {
	email, _ := middleware.UserEmail(r.Context())
	return email
}

// clientIP extracts the peer address without the port for audit records.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func decodeBody(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
