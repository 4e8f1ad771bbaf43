package routing

// Rewrite translates the original request path according to the routing
// decision. The second return reports whether the path changed. The rewrite is
// internal to the request: the client-visible URL is untouched.
func Rewrite(d Decision, originalPath string) (string, bool) {
	switch d.Kind {
	case KindPlatformSubdomain:
		return "/" + d.Subdomain + trailingPath(originalPath), true
	case KindCustomDomain:
		return CustomDomainPrefix + d.Host + trailingPath(originalPath), true
	default:
		return originalPath, false
	}
}

func trailingPath(originalPath string) string {
	if originalPath == "/" {
		return ""
	}
	return originalPath
}
