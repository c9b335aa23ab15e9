package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	sessions := NewSessions([]byte("secret"), time.Minute)

	token, err := sessions.Issue("dev@example.com")
	require.NoError(t, err)

	email, err := sessions.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", email)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	sessions := NewSessions([]byte("secret"), -time.Minute)

	token, err := sessions.Issue("dev@example.com")
	require.NoError(t, err)

	_, err = sessions.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewSessions([]byte("secret"), time.Minute).Issue("dev@example.com")
	require.NoError(t, err)

	_, err = NewSessions([]byte("other"), time.Minute).Verify(token)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	sessions := NewSessions([]byte("secret"), time.Minute)

	var seenEmail string
	handler := sessions.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenEmail, _ = UserEmail(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		token, err := sessions.Issue("dev@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/spaces/prod", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "dev@example.com", seenEmail)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/spaces/prod", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/spaces/prod", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/spaces/prod", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
