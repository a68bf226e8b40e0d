package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rc-foods/courier-client/internal/domain"
	"github.com/rc-foods/courier-client/pkg/apierror"
)

func loginServer(t *testing.T, user domain.User) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":       "login successful",
			"access_token":  "access",
			"refresh_token": "refresh",
			"user":          user,
		})
	}))
}

func TestLoginAcceptance(t *testing.T) {
	ctx := context.Background()
	creds := LoginRequest{Email: "x@example.com", Password: "pw"}

	t.Run("accepts approved delivery person", func(t *testing.T) {
		server := loginServer(t, domain.User{
			Role: domain.RoleDeliveryPerson, Approved: true, Status: domain.AccountStatusActive,
			FullName: "Ravi",
		})
		defer server.Close()

		pipeline, _, _ := newTestClient(t, server.URL)
		client := NewUserClient(pipeline, domain.RoleDeliveryPerson)

		resp, err := client.Login(ctx, creds)
		require.NoError(t, err)
		assert.Equal(t, "access", resp.AccessToken)
		assert.Equal(t, "refresh", resp.RefreshToken)
		assert.Equal(t, "Ravi", resp.User.FullName)
	})

	t.Run("role check wins regardless of other flags", func(t *testing.T) {
		// wrong role AND unapproved AND deleted: the rejection must be
		// the role one because the checks run in fixed order
		server := loginServer(t, domain.User{
			Role: domain.RoleAdmin, Approved: false, Status: domain.AccountStatusDeleted,
		})
		defer server.Close()

		pipeline, _, _ := newTestClient(t, server.URL)
		client := NewUserClient(pipeline, domain.RoleDeliveryPerson)

		_, err := client.Login(ctx, creds)
		require.Error(t, err)
		assert.True(t, apierror.IsRole(err))
	})

	t.Run("approval check runs before deletion", func(t *testing.T) {
		server := loginServer(t, domain.User{
			Role: domain.RoleDeliveryPerson, Approved: false, Status: domain.AccountStatusDeleted,
		})
		defer server.Close()

		pipeline, _, _ := newTestClient(t, server.URL)
		client := NewUserClient(pipeline, domain.RoleDeliveryPerson)

		_, err := client.Login(ctx, creds)
		require.Error(t, err)
		assert.True(t, apierror.IsApproval(err))
	})

	t.Run("deleted account is rejected", func(t *testing.T) {
		server := loginServer(t, domain.User{
			Role: domain.RoleDeliveryPerson, Approved: true, Status: domain.AccountStatusDeleted,
		})
		defer server.Close()

		pipeline, _, _ := newTestClient(t, server.URL)
		client := NewUserClient(pipeline, domain.RoleDeliveryPerson)

		_, err := client.Login(ctx, creds)
		require.Error(t, err)
		assert.Equal(t, apierror.CodeDeleted, apierror.Coerce(err).Code)
	})
}

func TestSignupForcesAllowedRole(t *testing.T) {
	var gotRole string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotRole, _ = body["role"].(string)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"pending approval","user":{}}`))
	}))
	defer server.Close()

	pipeline, _, _ := newTestClient(t, server.URL)
	client := NewUserClient(pipeline, domain.RoleDeliveryPerson)

	_, err := client.Signup(context.Background(), SignupRequest{Email: "x@example.com", Password: "pw", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleDeliveryPerson), gotRole)
}

func TestProfileRevalidatesRole(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(domain.User{Role: domain.RoleAdmin})
	}))
	defer server.Close()

	pipeline, _, _ := newTestClient(t, server.URL)
	client := NewUserClient(pipeline, domain.RoleDeliveryPerson)

	_, err := client.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsRole(err))
}
