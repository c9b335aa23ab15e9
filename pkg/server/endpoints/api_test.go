package endpoints_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envspace/envspace/pkg/audit"
	"github.com/envspace/envspace/pkg/db"
	"github.com/envspace/envspace/pkg/server"
	"github.com/envspace/envspace/pkg/server/endpoints"
	"github.com/envspace/envspace/pkg/server/middleware"
)

// newTestServer builds a server over a fresh in-memory store with the
// superuser seeded, and returns a token for it.
func newTestServer(t *testing.T) (*server.Server, string) {
	t.Helper()
	audit.SetEnabled(false)

	gdb, err := db.Connect(db.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, db.Bootstrap(gdb, db.AdminSeed{
		Email:    "super@example.com",
		Password: "superuser",
	}))

	sessions := middleware.NewSessions([]byte("test-secret"), time.Minute)
	srv := server.NewServer(gdb, sessions, "127.0.0.1:0")
	endpoints.RegisterAll(srv)

	token, err := sessions.Issue("super@example.com")
	require.NoError(t, err)
	return srv, token
}

func doJSON(t *testing.T, srv *server.Server, token, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w.Result()
}

func decodeResponse(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, into))
}

func TestAuthenticate(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("valid credentials", func(t *testing.T) {
		resp := doJSON(t, srv, "", "POST", "/authenticate", endpoints.AuthenticateRequest{
			Email:    "super@example.com",
			Password: "superuser",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result endpoints.AuthenticateResponse
		decodeResponse(t, resp, &result)
		assert.NotEmpty(t, result.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := doJSON(t, srv, "", "POST", "/authenticate", endpoints.AuthenticateRequest{
			Email:    "super@example.com",
			Password: "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown account", func(t *testing.T) {
		resp := doJSON(t, srv, "", "POST", "/authenticate", endpoints.AuthenticateRequest{
			Email:    "ghost@example.com",
			Password: "whatever",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestSpacesEndpointsRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, srv, "", "GET", "/spaces/prod", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSpaceLifecycle(t *testing.T) {
	srv, token := newTestServer(t)

	resp := doJSON(t, srv, token, "POST", "/spaces", endpoints.CreateSpaceRequest{Name: "prod"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// duplicate create conflicts
	resp = doJSON(t, srv, token, "POST", "/spaces", endpoints.CreateSpaceRequest{Name: "prod"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, srv, token, "POST", "/spaces/prod/env", endpoints.EnvRequest{Key: "DB_HOST", Value: "db.internal"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, srv, token, "GET", "/spaces/prod", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var space endpoints.SpaceResponse
	decodeResponse(t, resp, &space)
	assert.Equal(t, "prod", space.Name)
	require.Len(t, space.Envs, 1)
	assert.Equal(t, "DB_HOST", space.Envs[0].Key)
	assert.Empty(t, space.Access)

	resp = doJSON(t, srv, token, "DELETE", "/spaces/prod/env/DB_HOST", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, srv, token, "DELETE", "/spaces/prod", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, srv, token, "GET", "/spaces/prod", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSpaceGrants(t *testing.T) {
	srv, token := newTestServer(t)

	resp := doJSON(t, srv, token, "POST", "/spaces", endpoints.CreateSpaceRequest{Name: "prod"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doJSON(t, srv, token, "POST", "/roles", endpoints.CreateRoleRequest{Name: "ops"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, srv, token, "PUT", "/spaces/prod/access/ops", endpoints.GrantRequest{Write: true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var space endpoints.SpaceResponse
	decodeResponse(t, resp, &space)
	require.Len(t, space.Access, 1)
	assert.Equal(t, "ops", space.Access[0].Role)
	assert.True(t, space.Access[0].Write)

	// granting against a missing role trips referential integrity
	resp = doJSON(t, srv, token, "PUT", "/spaces/prod/access/ghost", endpoints.GrantRequest{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, srv, token, "DELETE", "/spaces/prod/access/ops", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeResponse(t, resp, &space)
	assert.Empty(t, space.Access)
}

func TestUserAndRoleMembership(t *testing.T) {
	srv, token := newTestServer(t)

	resp := doJSON(t, srv, token, "POST", "/users", endpoints.CreateUserRequest{
		Email:    "dev@example.com",
		Password: "s3cret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, srv, token, "POST", "/roles", endpoints.CreateRoleRequest{Name: "ops"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, srv, token, "POST", "/roles/ops/members", map[string]string{"email": "dev@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var role endpoints.RoleResponse
	decodeResponse(t, resp, &role)
	assert.Equal(t, []string{"dev@example.com"}, role.Members)

	// visible from the user side after reload
	resp = doJSON(t, srv, token, "GET", "/users/dev@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user endpoints.UserResponse
	decodeResponse(t, resp, &user)
	assert.Equal(t, []string{"ops"}, user.Roles)

	resp = doJSON(t, srv, token, "DELETE", "/roles/ops/members/dev@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeResponse(t, resp, &role)
	assert.Empty(t, role.Members)

	// the new account can authenticate with its plaintext password
	resp = doJSON(t, srv, "", "POST", "/authenticate", endpoints.AuthenticateRequest{
		Email:    "dev@example.com",
		Password: "s3cret",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUserResponsesNeverExposePassword(t *testing.T) {
	srv, token := newTestServer(t)

	resp := doJSON(t, srv, token, "GET", "/users/super@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
}
