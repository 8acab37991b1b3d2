package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/logging"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signToken(t *testing.T, secret []byte, claims map[string]interface{}) string {
	t.Helper()
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: secret}, (&jose.SignerOptions{}).WithType("JWT"))
	require.NoError(t, err)
	raw, err := jwt.Signed(signer).Claims(claims).CompactSerialize()
	require.NoError(t, err)
	return raw
}

func validClaims(extra map[string]interface{}) map[string]interface{} {
	claims := map[string]interface{}{
		"sub": "user_1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}
	return claims
}

func TestVerifierFromCookie(t *testing.T) {
	v := NewVerifier(testSecret, "__session")
	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: signToken(t, testSecret, validClaims(map[string]interface{}{"role": "admin"}))})

	session, err := v.FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "user_1", session.UserID)
	assert.Equal(t, "admin", session.Role())
	assert.Equal(t, []string{"exp", "role", "sub"}, session.ClaimKeys())
}

func TestVerifierFromBearerHeader(t *testing.T) {
	v := NewVerifier(testSecret, "__session")
	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims(nil)))

	session, err := v.FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "", session.Role())
}

func TestVerifierRejects(t *testing.T) {
	v := NewVerifier(testSecret, "__session")

	_, err := v.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong key", signToken(t, []byte("another-secret-another-secret-xx"), validClaims(nil))},
		{"expired", signToken(t, testSecret, map[string]interface{}{"sub": "user_1", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"no expiry", signToken(t, testSecret, map[string]interface{}{"sub": "user_1"})},
		{"no subject", signToken(t, testSecret, map[string]interface{}{"exp": time.Now().Add(time.Hour).Unix()})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestLookupClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v1/users/user_1":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"user_1","public_metadata":{"role":"recruiter"}}`))
		case "/v1/users/user_2":
			w.Write([]byte(`{"id":"user_2","public_metadata":{}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewLookupClient(srv.URL+"/", "sk_test", time.Second)

	role, err := client.LookupRole(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "recruiter", role)

	role, err = client.LookupRole(context.Background(), "user_2")
	require.NoError(t, err)
	assert.Equal(t, "", role)

	_, err = client.LookupRole(context.Background(), "user_3")
	assert.Error(t, err)
}

type stubLookup struct {
	role  string
	err   error
	calls int
}

func (s *stubLookup) LookupRole(context.Context, string) (string, error) {
	s.calls++
	return s.role, s.err
}

type mapCache map[string]string

func (m mapCache) GetRole(_ context.Context, userID string) (string, bool, error) {
	role, ok := m[userID]
	return role, ok, nil
}

func (m mapCache) SetRole(_ context.Context, userID, role string) error {
	m[userID] = role
	return nil
}

func TestResolverPrefersClaim(t *testing.T) {
	lookup := &stubLookup{role: "viewer"}
	r := NewResolver(lookup, nil, logging.NewMultiLogger())

	role := r.ResolveRole(context.Background(), &Session{UserID: "user_1", Claims: map[string]interface{}{"role": "admin"}})
	assert.Equal(t, "admin", role)
	assert.Zero(t, lookup.calls)
}

func TestResolverFallsBackToLookupAndCaches(t *testing.T) {
	lookup := &stubLookup{role: "recruiter"}
	cache := mapCache{}
	r := NewResolver(lookup, cache, logging.NewMultiLogger())
	session := &Session{UserID: "user_1", Claims: map[string]interface{}{}}

	assert.Equal(t, "recruiter", r.ResolveRole(context.Background(), session))
	assert.Equal(t, "recruiter", r.ResolveRole(context.Background(), session))
	assert.Equal(t, 1, lookup.calls)
	assert.Equal(t, "recruiter", cache["user_1"])
}

func TestResolverLookupFailureMeansNoRole(t *testing.T) {
	lookup := &stubLookup{err: errors.New("boom")}
	cache := mapCache{}
	r := NewResolver(lookup, cache, logging.NewMultiLogger())

	assert.Equal(t, "", r.ResolveRole(context.Background(), &Session{UserID: "user_1"}))
	assert.Empty(t, cache)
	assert.Equal(t, "", r.ResolveRole(context.Background(), nil))
}

func TestIsStaff(t *testing.T) {
	assert.True(t, IsStaff(RoleAdmin))
	assert.True(t, IsStaff(RoleRecruiter))
	assert.False(t, IsStaff("viewer"))
	assert.False(t, IsStaff(""))
}
