package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophboard/pkg/api"
)

func TestNewClient_PathPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "default", prefix: "", want: "/auth/v1/"},
		{name: "no slashes", prefix: "auth/v2", want: "/auth/v2/"},
		{name: "trailing slash", prefix: "/identity/", want: "/identity/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient("http://localhost", "", WithPathPrefix(tt.prefix))
			assert.Equal(t, tt.want, c.PathPrefix())
		})
	}
}

func TestClient_PasswordGrant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.PasswordGrantRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ann@example.com", req.Email)
		assert.Equal(t, "secret", req.Password)

		_ = json.NewEncoder(w).Encode(api.SessionResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			TokenType:    "bearer",
			ExpiresIn:    3600,
			ExpiresAt:    1700003600,
			User:         &api.User{ID: "u-1", Email: "ann@example.com"},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "anon-key")
	resp, err := c.PasswordGrant(context.Background(), "ann@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "access-1", resp.AccessToken)
	assert.Equal(t, "refresh-1", resp.RefreshToken)
	assert.Equal(t, int64(1700003600), resp.ExpiresAt)
	require.NotNil(t, resp.User)
	assert.Equal(t, "u-1", resp.User.ID)
}

func TestClient_PasswordGrant_MissingCredentials(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")

	_, err := c.PasswordGrant(context.Background(), "", "secret")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = c.PasswordGrant(context.Background(), "ann@example.com", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestClient_PasswordGrant_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	_, err := c.PasswordGrant(context.Background(), "ann@example.com", "wrong")

	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
	assert.Equal(t, "Invalid login credentials", statusErr.Message)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestClient_RefreshGrant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

		var req api.RefreshGrantRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "refresh-1", req.RefreshToken)

		_ = json.NewEncoder(w).Encode(api.SessionResponse{
			AccessToken:  "access-2",
			RefreshToken: "refresh-2",
			ExpiresIn:    3600,
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	resp, err := c.RefreshGrant(context.Background(), "refresh-1")

	require.NoError(t, err)
	assert.Equal(t, "access-2", resp.AccessToken)
	assert.Equal(t, "refresh-2", resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
}

func TestClient_RefreshGrant_NoToken(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "")
	_, err := c.RefreshGrant(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestClient_GetUser(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		body         string
		wantErr      bool
		unauthorized bool
	}{
		{name: "ok", statusCode: http.StatusOK, body: `{"id":"u-1","email":"ann@example.com"}`},
		{name: "expired token", statusCode: http.StatusUnauthorized, body: `{"msg":"JWT expired"}`, wantErr: true, unauthorized: true},
		{name: "server error", statusCode: http.StatusInternalServerError, body: `oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/auth/v1/user", r.URL.Path)
				assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(server.URL, "")
			user, err := c.GetUser(context.Background(), "access-1")

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.unauthorized, errors.Is(err, ErrUnauthorized))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u-1", user.ID)
			assert.Equal(t, "ann@example.com", user.Email)
		})
	}
}

func TestClient_Logout(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewClient(server.URL, "")
	require.NoError(t, c.Logout(context.Background(), "access-1"))
	assert.True(t, called)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewClient(url, "")
	_, err := c.RefreshGrant(context.Background(), "refresh-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}
