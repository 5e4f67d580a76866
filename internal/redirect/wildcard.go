package redirect

import (
	"regexp"
	"strings"
)

// Matcher tests normalized candidate paths against a compiled source pattern.
type Matcher struct {
	re *regexp.Regexp
}

// CompilePattern compiles a source pattern into a Matcher. Patterns may
// contain literal "*" wildcard tokens; everything else is matched verbatim.
//
// A pattern ending in "/*" matches the base path itself as well as anything
// under it: "/blog/*" matches "/blog", "/blog/" and "/blog/post", but not
// "/blog-archive". Wildcards anywhere else match greedily across path
// segments. A pattern without wildcards degenerates to an anchored exact
// match. Compilation succeeds for any input because all regex metacharacters
// in the pattern are quoted.
func CompilePattern(pattern string) *Matcher {
	normalized := NormalizePath(pattern)

	var expr string
	if strings.HasSuffix(normalized, "/*") {
		base := strings.TrimSuffix(normalized, "/*")
		expr = "^" + regexp.QuoteMeta(base) + "(/.*)?$"
	} else {
		expr = "^" + strings.ReplaceAll(regexp.QuoteMeta(normalized), `\*`, ".*") + "$"
	}

	return &Matcher{re: regexp.MustCompile(expr)}
}

// Match reports whether the candidate path satisfies the pattern. Callers
// are expected to normalize the candidate first.
func (m *Matcher) Match(candidate string) bool {
	return m.re.MatchString(candidate)
}

// MatchRecords finds the record whose source matches path. Exact matches on
// the normalized source always win; otherwise the first record (in listed
// order) whose wildcard source accepts the path is returned. Returns nil when
// nothing matches.
func MatchRecords(records []Record, path string) *Record {
	normalized := NormalizePath(path)

	for i := range records {
		if NormalizePath(records[i].Source) == normalized {
			return &records[i]
		}
	}

	for i := range records {
		if !strings.Contains(records[i].Source, "*") {
			continue
		}

		if CompilePattern(records[i].Source).Match(normalized) {
			return &records[i]
		}
	}

	return nil
}
