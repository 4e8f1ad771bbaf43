package routing

import "strings"

// DefaultProtectedPrefixes are the canonical internal path prefixes that
// require an authenticated session. Matching happens after rewriting, so the
// list is defined in terms of internal paths, never raw public hostnames.
var DefaultProtectedPrefixes = []string{
	"/manage",
	"/account",
}

// Gate decides whether a rewritten path may proceed without a session.
type Gate struct {
	loginPath string
	prefixes  []string
}

func NewGate(loginPath string, prefixes []string) *Gate {
	if loginPath == "" {
		loginPath = "/acesso/login"
	}
	if len(prefixes) == 0 {
		prefixes = DefaultProtectedPrefixes
	}
	return &Gate{loginPath: loginPath, prefixes: prefixes}
}

// Protected reports whether the path requires an authenticated session.
func (g *Gate) Protected(path string) bool {
	for _, prefix := range g.prefixes {
		if hasPathSegmentPrefix(path, strings.TrimPrefix(prefix, "/")) {
			return true
		}
	}
	return false
}

// Authorize returns ("", true) when the request may proceed, or the login
// redirect target otherwise. Protected paths fail closed; public paths are
// always allowed so an auth-provider outage never blocks menu viewers.
func (g *Gate) Authorize(path string, authenticated bool) (redirectTo string, allowed bool) {
	if !g.Protected(path) {
		return "", true
	}
	if authenticated {
		return "", true
	}
	return g.loginPath, false
}
