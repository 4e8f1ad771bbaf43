// Package subdomain derives and allocates the unique subdomain each tenant
// menu is addressed by.
package subdomain

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const maxLength = 20

var validPattern = regexp.MustCompile(`^[a-z0-9]{1,20}$`)

// Generate derives a candidate subdomain from a business name: lowercase,
// decompose accented characters and drop the combining marks, strip everything
// outside [a-z0-9], truncate to 20. May return "" when nothing survives
// (e.g. a name with no ASCII alphanumerics); the allocator rejects that case.
func Generate(rawName string) string {
	decomposed := norm.NFD.String(strings.ToLower(rawName))

	var b strings.Builder
	b.Grow(maxLength)
	for _, r := range decomposed {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == maxLength {
				break
			}
		}
	}
	return b.String()
}

// Valid reports whether s is a well-formed subdomain.
func Valid(s string) bool {
	return validPattern.MatchString(s)
}
