package domain

import (
	"regexp"
	"strings"
)

// HTTPMethods lists the verbs recognized in routing annotations and prose.
var HTTPMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// Endpoint is an HTTP route declared in code or mentioned in documentation.
// An empty Method means "any method".
type Endpoint struct {
	Method string `json:"method,omitempty"`
	Path   string `json:"path"`
	Line   int    `json:"line,omitempty"`
	Owner  string `json:"owner,omitempty"`
}

// Key identifies the endpoint after normalization.
func (e Endpoint) Key() string {
	return NormalizeHTTPMethod(e.Method) + " " + NormalizePath(e.Path)
}

var pathParamRe = regexp.MustCompile(`\{[^}/]*\}|<[^>/]*>|:[A-Za-z_]\w*`)

// NormalizePath collapses every path-parameter syntax ({id}, <id>, <int:id>,
// :id) to "{}", joins duplicate slashes and drops the trailing slash.
func NormalizePath(p string) string {
	p = strings.TrimSpace(strings.Trim(p, "`'\""))
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = pathParamRe.ReplaceAllString(p, "{}")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// NormalizeHTTPMethod upper-cases a verb and strips framework prefixes such
// as "RequestMethod.".
func NormalizeHTTPMethod(m string) string {
	m = strings.TrimSpace(strings.Trim(m, "`'\""))
	if i := strings.LastIndex(m, "."); i >= 0 {
		m = m[i+1:]
	}
	return strings.ToUpper(m)
}

// JoinPath concatenates a routing prefix and a route.
func JoinPath(base, route string) string {
	base = strings.TrimSpace(base)
	route = strings.TrimSpace(route)
	switch {
	case base == "":
		return route
	case route == "":
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(route, "/")
}
