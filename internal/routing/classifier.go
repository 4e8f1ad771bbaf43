// Package routing maps incoming hostnames to internal application paths. A
// tenant menu is reachable three ways: as "{subdomain}.{primary domain}", as a
// custom domain pointed at the platform, or directly via the canonical
// internal path. Classification decides which, and the rewriter translates the
// request path accordingly, in-process and never via redirect.
package routing

import (
	"net"
	"strings"
)

// Kind is the outcome of classifying a request's Host header.
type Kind int

const (
	// KindInternal passes the request through untouched.
	KindInternal Kind = iota
	// KindPlatformSubdomain routes to the tenant named by the first host label.
	KindPlatformSubdomain
	// KindCustomDomain routes to the tenant owning the full hostname.
	KindCustomDomain
)

// Decision is recomputed per request and never persisted.
type Decision struct {
	Kind Kind
	// Subdomain is set for KindPlatformSubdomain.
	Subdomain string
	// Host is set for KindCustomDomain.
	Host string
}

// CustomDomainPrefix is the canonical internal prefix for custom-domain
// tenants. A path already under it must never be rewritten again.
const CustomDomainPrefix = "/custom/"

const localhostMarker = "localhost"

var reservedPathPrefixes = []string{
	"/static/",
	"/api/",
	"/favicon",
}

// Classify decides how a request should be routed. Rules run in order:
// reserved/static paths and already-rewritten paths bypass everything,
// preview hosts and the bare primary domain stay internal, hosts with more
// labels than the primary domain are platform subdomains, and anything left is
// treated as a custom domain. Never returns an error: a malformed host simply
// falls through to the custom-domain branch and misses downstream.
func Classify(host, primaryDomain, previewMarker, path string) Decision {
	internal := Decision{Kind: KindInternal}

	if isReservedPath(path) {
		return internal
	}
	if strings.HasPrefix(path, CustomDomainPrefix) {
		return internal
	}

	host = NormalizeHost(host)
	primaryDomain = strings.ToLower(strings.TrimSpace(primaryDomain))

	if strings.Contains(host, localhostMarker) {
		return internal
	}
	if previewMarker != "" && strings.Contains(host, previewMarker) {
		return internal
	}
	if primaryDomain != "" && host == primaryDomain {
		return internal
	}

	hostParts := strings.Split(host, ".")
	mainParts := strings.Split(primaryDomain, ".")

	// A platform subdomain has more labels than the primary domain AND sits
	// under it. Label count alone would misroute unrelated hosts with deep
	// label structures (e.g. "loja.com.br") into the subdomain branch; when no
	// primary domain is configured the suffix check is unavailable and label
	// count is the best remaining signal.
	underPrimary := primaryDomain == "" || strings.HasSuffix(host, "."+primaryDomain)

	if len(hostParts) > len(mainParts) && underPrimary {
		sub := hostParts[0]
		if sub == "" || sub == "www" {
			return internal
		}
		// Already-rewritten guard: once "/{sub}" is the leading path segment,
		// a second pass through the classifier must be a no-op.
		if hasPathSegmentPrefix(path, sub) {
			return internal
		}
		return Decision{Kind: KindPlatformSubdomain, Subdomain: sub}
	}

	return Decision{Kind: KindCustomDomain, Host: host}
}

// NormalizeHost lowercases the Host header and strips any port.
func NormalizeHost(raw string) string {
	host := strings.ToLower(strings.TrimSpace(raw))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return strings.TrimSpace(h)
	}
	return host
}

func isReservedPath(path string) bool {
	for _, prefix := range reservedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	// Paths with a dot are almost certainly static files.
	return strings.Contains(path, ".")
}

func hasPathSegmentPrefix(path, segment string) bool {
	prefix := "/" + segment
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || strings.HasPrefix(rest, "/")
}
