package redirect

import "strings"

// NormalizePath canonicalizes a URL path for matching: all trailing slashes
// are stripped and an empty result collapses to "/". It is idempotent and
// never fails.
func NormalizePath(path string) string {
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "/"
	}

	return path
}
