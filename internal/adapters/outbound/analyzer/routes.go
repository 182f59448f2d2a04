package analyzer

import (
	"strings"

	"github.com/openkraft/docsync/internal/domain"
)

// springMappings maps Spring MVC annotations to their fixed verb. An empty
// verb means the method is read from the "method" argument.
var springMappings = map[string]string{
	"RequestMapping": "",
	"GetMapping":     "GET",
	"PostMapping":    "POST",
	"PutMapping":     "PUT",
	"DeleteMapping":  "DELETE",
	"PatchMapping":   "PATCH",
}

func isHTTPVerb(s string) bool {
	for _, m := range domain.HTTPMethods {
		if s == m {
			return true
		}
	}
	return false
}

func firstListed(s string) string {
	if i := strings.Index(s, ","); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// javaRoute reads a method-level route from Spring or JAX-RS annotations.
func javaRoute(anns []domain.AnnotationInfo) (verb, path string, ok bool) {
	for _, a := range anns {
		if fixed, hit := springMappings[a.Name]; hit {
			ok = true
			verb = fixed
			if verb == "" {
				if m, has := a.Arg("method"); has {
					verb = domain.NormalizeHTTPMethod(firstListed(m))
				}
			}
			if p, has := a.Arg("value", "path"); has {
				path = firstListed(p)
			}
			continue
		}
		switch {
		case isHTTPVerb(a.Name):
			ok = true
			verb = a.Name
		case a.Name == "Path":
			if p, has := a.Arg("value"); has {
				path = p
			}
		}
	}
	return verb, path, ok
}

// javaClassRoute reads the prefix declared on a controller class.
func javaClassRoute(anns []domain.AnnotationInfo) (string, bool) {
	for _, a := range anns {
		if a.Name == "RequestMapping" || a.Name == "Path" {
			if p, ok := a.Arg("value", "path"); ok {
				return firstListed(p), true
			}
		}
	}
	return "", false
}

func isJavaController(anns []domain.AnnotationInfo) bool {
	for _, a := range anns {
		switch a.Name {
		case "RestController", "Controller", "Path":
			return true
		}
	}
	return false
}

// pythonRouteVerbs are decorator attributes that register a route on a
// Flask app, blueprint or FastAPI router.
var pythonRouteVerbs = map[string]string{
	"route":     "",
	"api_route": "",
	"get":       "GET",
	"post":      "POST",
	"put":       "PUT",
	"delete":    "DELETE",
	"patch":     "PATCH",
	"head":      "HEAD",
	"options":   "OPTIONS",
}

// routeOwner reports whether a decorator receiver looks like an app,
// router or blueprint object.
func routeOwner(obj string) bool {
	obj = strings.ToLower(obj)
	if i := strings.LastIndex(obj, "."); i >= 0 {
		obj = obj[i+1:]
	}
	for _, s := range []string{"app", "router", "blueprint", "bp", "api"} {
		if strings.HasSuffix(obj, s) {
			return true
		}
	}
	return false
}

// pythonRoute turns a decorator such as @app.get("/x") or
// @bp.route("/x", methods=["POST"]) into a verb and path.
func pythonRoute(anns []domain.AnnotationInfo) (verb, path string, ok bool) {
	for _, a := range anns {
		obj, attr, dotted := cutLast(a.Name)
		if !dotted || !routeOwner(obj) {
			continue
		}
		fixed, hit := pythonRouteVerbs[attr]
		if !hit {
			continue
		}
		p, has := a.Arg("0", "path", "rule")
		if !has {
			continue
		}
		verb = fixed
		if verb == "" {
			verb = "GET"
			if m, has := a.Arg("methods"); has && firstListed(m) != "" {
				verb = domain.NormalizeHTTPMethod(firstListed(m))
			}
		}
		return verb, p, true
	}
	return "", "", false
}

func cutLast(name string) (string, string, bool) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return "", name, false
	}
	return name[:i], name[i+1:], true
}
