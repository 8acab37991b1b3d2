// Package identity authenticates staff sessions and resolves their role.
package identity

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"
)

var (
	// ErrNoSession is returned when a request carries no session token
	ErrNoSession = errors.New("no session")
	// ErrInvalidSession is returned for malformed, forged or expired tokens
	ErrInvalidSession = errors.New("invalid session")
)

// DefaultLeeway tolerates clock skew between issuer and server
const DefaultLeeway = time.Minute

// Session is an authenticated user and the claims of their token
type Session struct {
	UserID string
	Claims map[string]interface{}
}

// Role returns the top-level role claim, or "" when absent
func (s *Session) Role() string {
	if s == nil {
		return ""
	}
	role, _ := s.Claims["role"].(string)
	return role
}

// ClaimKeys returns the claim names in sorted order
func (s *Session) ClaimKeys() []string {
	keys := make([]string, 0, len(s.Claims))
	for k := range s.Claims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Verifier authenticates HS256 session tokens taken from the session cookie
// or an Authorization bearer header
type Verifier struct {
	secret []byte
	cookie string
	leeway time.Duration
	now    func() time.Time
}

// NewVerifier creates a verifier for tokens signed with secret
func NewVerifier(secret []byte, cookie string) *Verifier {
	return &Verifier{secret: secret, cookie: cookie, leeway: DefaultLeeway, now: time.Now}
}

// FromRequest authenticates the session carried by r
func (v *Verifier) FromRequest(r *http.Request) (*Session, error) {
	raw := v.token(r)
	if raw == "" {
		return nil, ErrNoSession
	}
	return v.Verify(raw)
}

// Verify checks the signature and validity window of a compact token
func (v *Verifier) Verify(raw string) (*Session, error) {
	tok, err := jwt.ParseSigned(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if len(tok.Headers) != 1 || tok.Headers[0].Algorithm != string(jose.HS256) {
		return nil, fmt.Errorf("%w: unexpected signing algorithm", ErrInvalidSession)
	}

	var (
		std    jwt.Claims
		claims map[string]interface{}
	)
	if err := tok.Claims(v.secret, &std, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if err := std.ValidateWithLeeway(jwt.Expected{Time: v.now()}, v.leeway); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if std.Expiry == nil {
		return nil, fmt.Errorf("%w: missing expiry", ErrInvalidSession)
	}
	if std.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidSession)
	}

	return &Session{UserID: std.Subject, Claims: claims}, nil
}

func (v *Verifier) token(r *http.Request) string {
	if c, err := r.Cookie(v.cookie); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
