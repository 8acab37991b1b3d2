package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/access"
	"hireflow/internal/identity"
	"hireflow/internal/logging"
	"hireflow/pkg/models"
)

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(1, 2, time.Minute, logging.NewMultiLogger())
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
	assert.Equal(t, 2, rl.Clients())
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	rl := NewRateLimiter(60, 1, time.Minute, logging.NewMultiLogger())
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("10.0.0.1")

	now = now.Add(2 * time.Minute)
	rl.Allow("10.0.0.2")
	rl.cleanup()

	assert.Equal(t, 1, rl.Clients())
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute, logging.NewMultiLogger())
	defer rl.Stop()

	e := echo.New()
	e.POST("/api/public/uploads", ok, RateLimit(rl))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/public/uploads", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/public/uploads", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	rl := NewRateLimiter(1, 1, time.Minute, logging.NewMultiLogger())
	defer rl.Stop()

	extractor, err := IPExtractor(nil)
	require.NoError(t, err)
	e := echo.New()
	e.IPExtractor = extractor
	e.POST("/api/public/uploads", ok, RateLimit(rl))

	codes := []int{}
	for _, forwarded := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/public/uploads", nil)
		req.Header.Set(echo.HeaderXForwardedFor, forwarded)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestIPExtractorTrustedProxies(t *testing.T) {
	extractor, err := IPExtractor([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:4567"
	req.Header.Set(echo.HeaderXForwardedFor, "203.0.113.9")
	assert.Equal(t, "203.0.113.9", extractor(req))

	req.RemoteAddr = "192.0.2.50:4567"
	assert.Equal(t, "192.0.2.50", extractor(req))

	_, err = IPExtractor([]string{"not-a-cidr"})
	assert.Error(t, err)
}

func TestRequestValidation(t *testing.T) {
	e := echo.New()
	e.Use(RequestValidation())
	e.POST("/jobs", func(c echo.Context) error {
		return c.String(http.StatusOK, RequestID(c))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
	assert.Equal(t, rec.Body.String(), rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	big := strings.Repeat("x", MaxBodyBytes+1)
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/jobs", strings.NewReader(big)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

type stubAuth struct {
	session *identity.Session
}

func (a stubAuth) FromRequest(*http.Request) (*identity.Session, error) {
	if a.session == nil {
		return nil, identity.ErrNoSession
	}
	return a.session, nil
}

type stubRoles string

func (r stubRoles) ResolveRole(context.Context, *identity.Session) string { return string(r) }

func newAccessEcho(session *identity.Session, role string) *echo.Echo {
	gate := access.NewGate(access.DefaultPolicy(), stubAuth{session: session}, stubRoles(role), "/sign-in", "/careers")

	e := echo.New()
	e.Use(Access(gate, logging.NewMultiLogger()))
	e.GET("/jobs", func(c echo.Context) error {
		return c.JSON(http.StatusOK, Actor(c))
	})
	e.GET("/careers", ok)
	return e
}

func TestAccessMiddleware(t *testing.T) {
	session := &identity.Session{UserID: "user_9", Claims: map[string]interface{}{"sub": "user_9"}}

	t.Run("anonymous staff route redirects to sign-in", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newAccessEcho(nil, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs?status=active", nil))
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/sign-in?redirect_url=%2Fjobs%3Fstatus%3Dactive", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("non-staff redirects to careers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newAccessEcho(session, "viewer").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/careers", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("recruiter passes with actor", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newAccessEcho(session, "recruiter").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"userId":"user_9","role":"recruiter"}`, rec.Body.String())
	})

	t.Run("public route needs no session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newAccessEcho(nil, "").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/careers", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestActorWithoutSession(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, models.Actor{}, Actor(c))
	assert.Nil(t, Session(c))
}
