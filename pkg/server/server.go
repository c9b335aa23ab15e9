package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/envspace/envspace/pkg/server/middleware"
	"github.com/envspace/envspace/pkg/store"
)

// Server wires the HTTP router to the data layer. Repositories share the
// one process-wide store handle; none of them owns it.
type Server struct {
	Router   *mux.Router
	DB       *gorm.DB
	Spaces   *store.Spaces
	Users    *store.Users
	Roles    *store.Roles
	Sessions *middleware.Sessions
	srv      *http.Server
}

// NewServer creates a new Server bound to addr.
func NewServer(db *gorm.DB, sessions *middleware.Sessions, addr string) *Server {
	router := mux.NewRouter()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(os.Stdout, router),
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:   router,
		DB:       db,
		Spaces:   store.NewSpaces(db),
		Users:    store.NewUsers(db),
		Roles:    store.NewRoles(db),
		Sessions: sessions,
		srv:      srv,
	}
}

// Start serves HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
