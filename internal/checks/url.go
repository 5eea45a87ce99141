package checks

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// DefaultMaxURLLength is the URL length cap used when a rule declares none.
const DefaultMaxURLLength = 2048

// ValidateURL checks that s is an absolute http(s) URL with a host, no spaces
// and a single scheme separator.
func ValidateURL(s string) (bool, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, "URL is required"
	}

	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false, "URL must start with http:// or https://"
	}

	u, err := url.Parse(s)
	if err != nil {
		if strings.Contains(s, " ") {
			return false, "URL cannot contain spaces"
		}
		return false, fmt.Sprintf("Invalid URL format: %v", err)
	}
	if u.Host == "" {
		return false, "URL must include a domain name"
	}
	if strings.Contains(s, " ") {
		return false, "URL cannot contain spaces"
	}
	if strings.Count(s, "://") > 1 {
		return false, "URL has malformed protocol"
	}
	return true, ""
}

// CheckURLLength flags URLs longer than max characters.
func CheckURLLength(s string, max int) (bool, string) {
	n := utf8.RuneCountInString(s)
	if n > max {
		return false, fmt.Sprintf("URL is %d characters, maximum is %d", n, max)
	}
	return true, ""
}

// ExtractDomain returns the host of a URL, or "" when it cannot be parsed.
func ExtractDomain(s string) string {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return u.Host
}
