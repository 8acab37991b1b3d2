// Package access decides whether a request may reach a route, based on the
// route's class, the caller's session and the caller's role.
package access

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"hireflow/internal/identity"
)

// Class is the protection level of a path
type Class int

const (
	// Protected paths need a session but no particular role
	Protected Class = iota
	// Public paths skip identity checks entirely
	Public
	// Admin paths need a staff role
	Admin
)

func (c Class) String() string {
	switch c {
	case Public:
		return "public"
	case Admin:
		return "admin"
	default:
		return "protected"
	}
}

// Outcome is the result of an access decision
type Outcome int

const (
	Allow Outcome = iota
	RedirectSignIn
	RedirectCareers
)

// DefaultPublicPrefixes are reachable without a session
var DefaultPublicPrefixes = []string{
	"/careers",
	"/api/public",
	"/api/debug-claims",
	"/sign-in",
	"/sign-up",
	"/health",
}

// DefaultAdminPrefixes need an admin or recruiter role. The root path is
// matched exactly.
var DefaultAdminPrefixes = []string{
	"/jobs",
	"/candidates",
	"/interviews",
	"/analytics",
	"/settings",
	"/compliance",
}

// Policy classifies paths by prefix
type Policy struct {
	PublicPrefixes []string
	AdminPrefixes  []string
	// AdminRoot makes "/" an admin path
	AdminRoot bool
}

// DefaultPolicy returns the route classes of the hiring dashboard
func DefaultPolicy() Policy {
	return Policy{
		PublicPrefixes: DefaultPublicPrefixes,
		AdminPrefixes:  DefaultAdminPrefixes,
		AdminRoot:      true,
	}
}

// Classify returns the class of path. A prefix matches the path itself and
// anything below it.
func (p Policy) Classify(path string) Class {
	if matchAny(path, p.PublicPrefixes) {
		return Public
	}
	if (p.AdminRoot && path == "/") || matchAny(path, p.AdminPrefixes) {
		return Admin
	}
	return Protected
}

func matchAny(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// Decide applies the access procedure to an already classified path. role
// is only consulted for admin paths.
func Decide(class Class, hasSession bool, role func() string) Outcome {
	if class == Public {
		return Allow
	}
	if !hasSession {
		return RedirectSignIn
	}
	if class == Admin && !identity.IsStaff(role()) {
		return RedirectCareers
	}
	return Allow
}

// Authenticator extracts a session from a request
type Authenticator interface {
	FromRequest(r *http.Request) (*identity.Session, error)
}

// RoleResolver finds the role of a session's user
type RoleResolver interface {
	ResolveRole(ctx context.Context, session *identity.Session) string
}

// Result describes a decision and what led to it
type Result struct {
	Outcome  Outcome
	Class    Class
	Session  *identity.Session
	Role     string
	Location string
}

// Gate runs the access procedure for HTTP requests
type Gate struct {
	policy     Policy
	auth       Authenticator
	roles      RoleResolver
	signInURL  string
	careersURL string
}

// NewGate creates a gate that redirects to signInURL and careersURL
func NewGate(policy Policy, auth Authenticator, roles RoleResolver, signInURL, careersURL string) *Gate {
	return &Gate{policy: policy, auth: auth, roles: roles, signInURL: signInURL, careersURL: careersURL}
}

// Check decides whether r may proceed. Errors from the authenticator other
// than a missing or invalid session are returned to the caller.
func (g *Gate) Check(r *http.Request) (Result, error) {
	res := Result{Class: g.policy.Classify(r.URL.Path)}
	if res.Class == Public {
		res.Outcome = Allow
		return res, nil
	}

	session, err := g.auth.FromRequest(r)
	if err != nil && !errors.Is(err, identity.ErrNoSession) && !errors.Is(err, identity.ErrInvalidSession) {
		return res, err
	}
	res.Session = session

	res.Outcome = Decide(res.Class, session != nil, func() string {
		res.Role = g.roles.ResolveRole(r.Context(), session)
		return res.Role
	})
	if res.Class != Admin && session != nil {
		res.Role = session.Role()
	}

	switch res.Outcome {
	case RedirectSignIn:
		res.Location = g.signInLocation(r)
	case RedirectCareers:
		res.Location = g.careersURL
	}
	return res, nil
}

func (g *Gate) signInLocation(r *http.Request) string {
	q := url.Values{"redirect_url": {r.URL.RequestURI()}}
	sep := "?"
	if strings.Contains(g.signInURL, "?") {
		sep = "&"
	}
	return g.signInURL + sep + q.Encode()
}
